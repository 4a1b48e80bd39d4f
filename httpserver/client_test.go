package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/arc-name-service/controller"
	"github.com/ruteri/arc-name-service/interfaces"
	"github.com/ruteri/arc-name-service/registry"
)

func TestClient(t *testing.T) {
	router, provider := newInMemoryRouter(t, registry.NewMockRegistryClient())
	server := httptest.NewServer(router)
	defer server.Close()

	capability, err := provider.Acquire(context.Background())
	require.NoError(t, err)

	client := NewClient(server.URL + "/")
	ctx := context.Background()

	resp, err := client.Resolve(ctx, "sercan")
	require.NoError(t, err)
	assert.Equal(t, "not_registered", resp.Outcome)

	resp, err = client.Register(ctx, "sercan")
	require.NoError(t, err)
	assert.Equal(t, "registered", resp.Outcome)
	assert.Equal(t, "sercan.arc has been successfully registered!", resp.Message)

	resp, err = client.Resolve(ctx, "sercan.arc")
	require.NoError(t, err)
	assert.Equal(t, capability.Account.Hex(), resp.Address)

	state, err := client.State(ctx, controller.OpRegister)
	require.NoError(t, err)
	assert.False(t, state.InFlight)
	require.NotNil(t, state.Last)
	assert.Equal(t, "registered", state.Last.Outcome)
}

func TestClient_EscapedNames(t *testing.T) {
	registryClient := registry.NewMockRegistryClient()
	router, provider := newInMemoryRouter(t, registryClient)
	server := httptest.NewServer(router)
	defer server.Close()

	capability, err := provider.Acquire(context.Background())
	require.NoError(t, err)

	client := NewClient(server.URL)
	ctx := context.Background()

	for _, raw := range []string{"a/b", "a/b c", "50%/off"} {
		resp, err := client.Register(ctx, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw+".arc", resp.Name)
		assert.Equal(t, capability.Account, registryClient.Owner(interfaces.Name(raw+".arc")), raw)

		resp, err = client.Resolve(ctx, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "resolved", resp.Outcome)
		assert.Equal(t, raw+".arc", resp.Name)
	}

	assert.Equal(t, interfaces.ZeroAddress, registryClient.Owner("a%2Fb.arc"))
}

func TestClient_Errors(t *testing.T) {
	router, _ := newInMemoryRouter(t, registry.NewMockRegistryClient())
	server := httptest.NewServer(router)
	defer server.Close()

	client := NewClient(server.URL)

	_, err := client.Resolve(context.Background(), "  ")
	var errResp *ErrorResponse
	require.True(t, errors.As(err, &errResp))
	assert.Equal(t, http.StatusBadRequest, errResp.StatusCode)
	require.NotNil(t, errResp.Outcome)
	assert.Equal(t, interfaces.ErrInvalidName.Error(), err.Error())

	_, err = client.State(context.Background(), "transfer")
	require.True(t, errors.As(err, &errResp))
	assert.Equal(t, http.StatusNotFound, errResp.StatusCode)
	assert.Nil(t, errResp.Outcome)
	assert.Contains(t, err.Error(), "Unknown panel")

	server.Close()
	_, err = client.Resolve(context.Background(), "sercan")
	assert.ErrorContains(t, err, "could not request name service")
}
