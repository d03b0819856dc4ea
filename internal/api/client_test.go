package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexwrit/scribe/internal/document"
	"github.com/nexwrit/scribe/internal/session"
)

func TestBearerTokenOnEveryRequest(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok-123"})
	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	_, err = client.ListSections(context.Background(), "proj-1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, header := range got {
		assert.Equal(t, "Bearer tok-123", header)
	}
}

func TestTokenReadFreshPerRequest(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(tokenPath, []byte("first\n"), 0o600))

	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(server.URL, session.FileTokenSource{Path: tokenPath})
	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)

	// An external refresh rewrites the file; the next call must carry it.
	require.NoError(t, os.WriteFile(tokenPath, []byte("second"), 0o600))
	_, err = client.ListProjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, got)
}

func TestMissingTokenFailsBeforeNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: ""})
	_, err := client.ListProjects(context.Background())
	require.ErrorIs(t, err, session.ErrNoToken)
	assert.Zero(t, calls)
}

func TestBackendDetailSurfacesInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Project not found"})
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	_, err := client.GetProject(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Project not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "Project not found")
}

func TestErrorWithoutDetailBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	_, err := client.ListProjects(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestCreateSectionPayload(t *testing.T) {
	var body map[string]any
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(document.Section{ID: "sec-1", Title: "Intro", OrderIndex: 2})
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	section, err := client.CreateSection(context.Background(), "proj-1", "Intro", 2)
	require.NoError(t, err)

	assert.Equal(t, "/projects/proj-1/sections", path)
	assert.Equal(t, "Intro", body["title"])
	assert.Equal(t, float64(2), body["order_index"])
	// Content rides along as explicit null, matching the creation contract.
	content, present := body["content"]
	assert.True(t, present)
	assert.Nil(t, content)
	assert.Equal(t, "sec-1", section.ID)
}

func TestGenerateOutlineRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate/outline", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "EV Market 2025", body["topic"])
		assert.Equal(t, "docx", body["type"])
		assert.Equal(t, float64(5), body["num_sections"])
		json.NewEncoder(w).Encode(map[string]any{"sections": []string{"Intro", "Market Size", "Conclusion"}})
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	titles, err := client.GenerateOutline(context.Background(), "EV Market 2025", document.DocTypeWord, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Intro", "Market Size", "Conclusion"}, titles)
}

func TestRefinePayloadCarriesPrompt(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate/refine/sec-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(document.Section{ID: "sec-1", Content: "revised"})
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	section, err := client.RefineSection(context.Background(), "sec-1", "make it formal")
	require.NoError(t, err)
	assert.Equal(t, "make it formal", body["refinement_prompt"])
	assert.Equal(t, "revised", section.Content)
}

func TestExportStreamsBinary(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0xff, 0x00} // zip magic + junk
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export/proj-1", r.URL.Path)
		w.Header().Set("Content-Disposition", `attachment; filename="EV Market 2025.docx"`)
		w.Write(payload)
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	download, err := client.Export(context.Background(), "proj-1")
	require.NoError(t, err)
	defer download.Close()

	assert.Equal(t, "EV Market 2025.docx", download.Filename)
	data, err := io.ReadAll(download.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestExportErrorDecodesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Project not found"})
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	_, err := client.Export(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Project not found", apiErr.Message)
}

func TestDeleteCommentPath(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL, session.StaticTokenSource{Value: "tok"})
	require.NoError(t, client.DeleteComment(context.Background(), "com-9"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/projects/comments/com-9", path)
}
