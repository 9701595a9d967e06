// Package khojapi is the HTTP client for the Khoj content indexing API.
package khojapi

import (
	"time"

	"github.com/imroc/req/v3"
)

// KhojAPI is the client for the Khoj server.
type KhojAPI struct {
	client  *req.Client
	baseURL string
	Content *ContentAPI
}

// New creates a new KhojAPI client for the given server.
// The API key is sent as a bearer credential on every request.
func New(baseURL string, apiKey string) (*KhojAPI, error) {
	if baseURL == "" {
		return nil, ErrNoServerURL
	}

	client := req.C().
		SetBaseURL(baseURL).
		SetTimeout(2 * time.Minute).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetUserAgent(KhojSyncUserAgent).
		SetCommonHeader(HeaderClientVersion, versionString).
		SetCommonHeader(HeaderDeviceID, deviceID).
		SetCommonQueryParam("client", clientName).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	if apiKey != "" {
		client.SetCommonBearerAuthToken(apiKey)
	}

	return &KhojAPI{
		client:  client,
		baseURL: baseURL,
		Content: newContentAPI(client),
	}, nil
}

// Close terminates idle connections held by the underlying client.
func (k *KhojAPI) Close() {
	k.client.GetClient().CloseIdleConnections()
}
