package httpobj_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indigo-web/netpipe/httpobj"
)

func TestToPlain(t *testing.T) {
	t.Run("full response collapses preserving decoder result", func(t *testing.T) {
		headers := httpobj.NewHeaders().Add("Content-Encoding", "gzip")
		result := httpobj.Failure(errors.New("boom"))
		full := httpobj.NewFullResponse(httpobj.HTTP11, httpobj.OK, headers, nil, result)

		plain := httpobj.ToPlain(full)

		resp, ok := plain.(*httpobj.Response)
		require.True(t, ok)
		require.Equal(t, httpobj.OK, resp.Status)
		require.Equal(t, headers, resp.Headers)
		require.False(t, resp.DecoderResult.IsSuccess())
	})

	t.Run("plain message passes through unchanged", func(t *testing.T) {
		req := httpobj.NewRequest(httpobj.HTTP11, httpobj.GET, "/", httpobj.NewHeaders(), httpobj.Success())

		require.Same(t, httpobj.Object(req), httpobj.Object(httpobj.ToPlain(req)))
	})
}

func TestStatusOf(t *testing.T) {
	resp := httpobj.NewResponse(httpobj.HTTP11, httpobj.Continue, httpobj.NewHeaders(), httpobj.Success())

	code, ok := httpobj.StatusOf(resp)
	require.True(t, ok)
	require.Equal(t, httpobj.Continue, code)

	req := httpobj.NewRequest(httpobj.HTTP11, httpobj.GET, "/", httpobj.NewHeaders(), httpobj.Success())
	_, ok = httpobj.StatusOf(req)
	require.False(t, ok)
}
