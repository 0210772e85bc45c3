package localization

import (
	"context"
	"net/http"
	"strings"

	httputils "historytutor/tutor/utils/http"
	"historytutor/tutor/utils/types"
)

const preferencesPath = "/api/preferences"

// HTTPPersister keeps preferences on the server, keyed by the client cookie
// the server hands out. The client must therefore carry a cookie jar.
type HTTPPersister struct {
	baseURL string
	client  httputils.Doer
}

func NewHTTPPersister(baseURL string, client httputils.Doer) *HTTPPersister {
	return &HTTPPersister{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *HTTPPersister) Load(ctx context.Context) (types.Preferences, bool, error) {
	var prefs types.Preferences
	if err := httputils.DoJSON(ctx, p.client, http.MethodGet, p.baseURL+preferencesPath, "", nil, &prefs); err != nil {
		return types.Preferences{}, false, err
	}
	return prefs, true, nil
}

func (p *HTTPPersister) Save(ctx context.Context, prefs types.Preferences) error {
	return httputils.DoJSON(ctx, p.client, http.MethodPut, p.baseURL+preferencesPath, "", prefs, nil)
}
