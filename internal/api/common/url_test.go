package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetAndValidateURLParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		param      string
		value      string
		want       string
		wantErrMsg string
	}{
		{name: "plain resource", param: "resource", value: "achievements", want: "achievements"},
		{name: "identity with punctuation", param: "id", value: "class.10-a_2024", want: "class.10-a_2024"},
		{name: "encoded slash", param: "id", value: "2024%2F25", want: "2024/25"},
		{name: "encoded colon", param: "id", value: "event%3A12", want: "event:12"},
		{name: "empty", param: "resource", value: "", wantErrMsg: "resource cannot be empty"},
		{name: "encoded space only", param: "resource", value: "%20%20", wantErrMsg: "resource cannot be empty"},
		{name: "encoded tab only", param: "id", value: "%09", wantErrMsg: "id cannot be empty"},
		{name: "space in middle", param: "id", value: "sports%20day", wantErrMsg: "id cannot contain whitespace"},
		{name: "newline at end", param: "id", value: "e1%0A", wantErrMsg: "id cannot contain whitespace"},
		{name: "incomplete escape", param: "id", value: "e1%2", wantErrMsg: "invalid URL encoding in id"},
		{name: "invalid hex escape", param: "resource", value: "faculty%ZZ", wantErrMsg: "invalid URL encoding in resource"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := GetAndValidateURLParam(requestWithParam(tt.param, tt.value), tt.param)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
