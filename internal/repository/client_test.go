package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skyline/pkg/errors"
	"github.com/skylinehq/skyline/pkg/logging"
	"github.com/skylinehq/skyline/pkg/registry"
)

func newClient(serverURL string) *Client {
	return New(serverURL, "buildings", "key123", WithLogger(logging.NewNopLogger()))
}

func TestListAllPagesUntilExhaustion(t *testing.T) {
	var offsets []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/buildings", r.URL.Path)
		require.Equal(t, "100", r.URL.Query().Get("pageSize"))
		require.Equal(t, "Bearer key123", r.Header.Get("Authorization"))

		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		switch offset {
		case "":
			_, _ = w.Write([]byte(`{
				"records": [
					{"id": "rec1", "fields": {"name": "Narkomfin Building", "lat": 55.758, "lng": 37.579}},
					{"id": "rec2", "fields": {"name": "Shukhov Tower", "lat": 55.717, "lng": 37.611, "isHidden": true}}
				],
				"offset": "page2"
			}`))
		case "page2":
			_, _ = w.Write([]byte(`{
				"records": [{"id": "rec3", "fields": {"name": "Melnikov House", "lat": 55.740, "lng": 37.590}}]
			}`))
		default:
			t.Fatalf("unexpected offset %q", offset)
		}
	}))
	defer server.Close()

	records, err := newClient(server.URL).ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"", "page2"}, offsets)
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "Narkomfin Building", records[0].Name)
	assert.True(t, records[1].IsHidden, "hidden records stay in the listing")
	assert.InDelta(t, 55.740, records[2].Coordinates.Lat, 1e-9)
}

func TestGetMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Get(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateWrapsFields(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = w.Write([]byte(`{"id": "rec9", "fields": {"name": "Tatlin Tower", "lat": 59.95, "lng": 30.31}}`))
	}))
	defer server.Close()

	created, err := newClient(server.URL).Create(context.Background(), registry.Raw{
		"name": "Tatlin Tower", "lat": 59.95, "lng": 30.31,
	})

	require.NoError(t, err)
	assert.Equal(t, "POST /buildings", gotPath)
	fields, ok := gotBody["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tatlin Tower", fields["name"])
	assert.Equal(t, "rec9", created.ID)
}

func TestPatchTargetsRecordURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_, _ = w.Write([]byte(`{"id": "rec1", "fields": {"name": "Narkomfin Building", "placeId": "ChIJnew"}}`))
	}))
	defer server.Close()

	updated, err := newClient(server.URL).Patch(context.Background(), "rec1", registry.Raw{"placeId": "ChIJnew"})

	require.NoError(t, err)
	assert.Equal(t, "PATCH /buildings/rec1", gotPath)
	assert.Equal(t, "ChIJnew", updated.PlaceID)
}

func TestDeleteRecord(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_, _ = w.Write([]byte(`{"deleted": true, "id": "rec1"}`))
	}))
	defer server.Close()

	err := newClient(server.URL).Delete(context.Background(), "rec1")

	require.NoError(t, err)
	assert.Equal(t, "DELETE /buildings/rec1", gotPath)
}

func TestDeletePropagatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := newClient(server.URL).Delete(context.Background(), "rec1")
	assert.True(t, errors.IsTransient(err))
}
