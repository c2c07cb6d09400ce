package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionThenFetchFrameReturnsPNG(t *testing.T) {
	s := NewServer(0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	body, _ := json.Marshal(SessionCreateRequest{
		Source: `M 0 0 L 40 40 setcolor red stroke`,
		Width:  32, Height: 32, Frames: 5, Duration: 1,
	})
	resp, err := ts.Client().Post(ts.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 201, resp.StatusCode)

	var created SessionCreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, 5, created.Frames)

	frameResp, err := ts.Client().Get(ts.URL + "/sessions/" + created.SessionID + "/frames/0")
	require.NoError(t, err)
	defer frameResp.Body.Close()
	require.Equal(t, 200, frameResp.StatusCode)
	assert.Equal(t, "image/png", frameResp.Header.Get("Content-Type"))

	img, err := png.Decode(frameResp.Body)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestCreateSessionRejectsEmptySource(t *testing.T) {
	s := NewServer(0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	body, _ := json.Marshal(SessionCreateRequest{Source: ""})
	resp, err := ts.Client().Post(ts.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestCreateSessionRejectsInvalidProgram(t *testing.T) {
	s := NewServer(0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	body, _ := json.Marshal(SessionCreateRequest{Source: "notaninstruction"})
	resp, err := ts.Client().Post(ts.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetUnknownSessionReturnsNotFound(t *testing.T) {
	s := NewServer(0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/sessions/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDestroySessionRemovesIt(t *testing.T) {
	s := NewServer(0)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	body, _ := json.Marshal(SessionCreateRequest{Source: `newpath`})
	resp, err := ts.Client().Post(ts.URL+"/sessions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	var created SessionCreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	delReq, err := http.NewRequest(http.MethodDelete, ts.URL+"/sessions/"+created.SessionID, nil)
	require.NoError(t, err)
	delResp, err := ts.Client().Do(delReq)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, 204, delResp.StatusCode)

	getResp, err := ts.Client().Get(ts.URL + "/sessions/" + created.SessionID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, 404, getResp.StatusCode)
}

func TestProcessMonitorStopIsIdempotent(t *testing.T) {
	called := 0
	m := NewProcessMonitor(func() { called++ })
	m.Stop()
	m.Stop()
	assert.Equal(t, 0, called, "shutdownFunc should not fire on manual Stop")
}
