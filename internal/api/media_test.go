package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/crewsense/crewsense-core/internal/media"
)

func decodeRecord(t *testing.T, resp *http.Response) media.Record {
	t.Helper()

	var record media.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	return record
}

// postVideo uploads a multipart video payload.
func postVideo(t *testing.T, url, deviceID, filename string, payload []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if deviceID != "" {
		if err := mw.WriteField("device_id", deviceID); err != nil {
			t.Fatal(err)
		}
	}
	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(url+"/api/v1/media/videos", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /media/videos: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck
	return resp
}

func TestCreateImageEndpoint(t *testing.T) {
	_, ts := newTestRouter(t)

	resp := postJSON(t, ts.URL+"/api/v1/media/images", `{"device_id": "FF1", "samples": [0, 64, 128, 255]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	record := decodeRecord(t, resp)
	if record.ID == 0 || record.Kind != media.KindImage || record.DeviceID != "FF1" {
		t.Errorf("record = %+v", record)
	}
}

func TestCreateImageValidation(t *testing.T) {
	_, ts := newTestRouter(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing device_id", `{"samples": [1, 2, 3]}`, ErrCodeValidation},
		{"missing samples", `{"device_id": "FF1"}`, ErrCodeValidation},
		{"malformed json", `{oops`, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/v1/media/images", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var apiErr Error
			if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
				t.Fatal(err)
			}
			if apiErr.Code != tt.code {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.code)
			}
		})
	}
}

func TestCreateVideoEndpoint(t *testing.T) {
	_, ts := newTestRouter(t)

	payload := bytes.Repeat([]byte{0xCD}, 2048)
	resp := postVideo(t, ts.URL, "FF2", "clip.webm", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	record := decodeRecord(t, resp)
	if record.Kind != media.KindVideo || record.SizeBytes != 2048 {
		t.Errorf("record = %+v", record)
	}

	// The stored binary must be retrievable byte-for-byte via the file route.
	fileResp, err := http.Get(ts.URL + "/api/v1/media/files/" + record.StorageRef)
	if err != nil {
		t.Fatal(err)
	}
	defer fileResp.Body.Close()

	if fileResp.StatusCode != http.StatusOK {
		t.Fatalf("file fetch status = %d", fileResp.StatusCode)
	}
	served, _ := io.ReadAll(fileResp.Body)
	if !bytes.Equal(served, payload) {
		t.Error("served binary differs from upload")
	}
}

func TestCreateVideoTooLarge(t *testing.T) {
	s, ts := newTestRouter(t)

	payload := bytes.Repeat([]byte{1}, int(s.media.MaxVideoBytes())+1)
	resp := postVideo(t, ts.URL, "FF1", "big.mp4", payload)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
}

func TestCreateVideoMissingDeviceID(t *testing.T) {
	_, ts := newTestRouter(t)

	resp := postVideo(t, ts.URL, "", "clip.mp4", []byte{1, 2, 3})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListMedia(t *testing.T) {
	_, ts := newTestRouter(t)

	postJSON(t, ts.URL+"/api/v1/media/images", `{"device_id": "FF1", "samples": [1]}`)
	postJSON(t, ts.URL+"/api/v1/media/images", `{"device_id": "FF2", "samples": [2]}`)
	postVideo(t, ts.URL, "FF1", "clip.mp4", []byte{1, 2, 3})

	get := func(query string) (int, []media.Record) {
		resp, err := http.Get(ts.URL + "/api/v1/media" + query)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var body struct {
			Media []media.Record `json:"media"`
			Count int            `json:"count"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		return body.Count, body.Media
	}

	if count, _ := get(""); count != 3 {
		t.Errorf("unfiltered count = %d, want 3", count)
	}
	if count, records := get("?device_id=FF1"); count != 2 {
		t.Errorf("FF1 count = %d, want 2: %+v", count, records)
	}
	if count, _ := get("?kind=video"); count != 1 {
		t.Errorf("video count = %d, want 1", count)
	}
	if count, _ := get("?device_id=FF1&kind=image"); count != 1 {
		t.Errorf("combined filter count = %d, want 1", count)
	}
}

func TestListMediaInvalidKind(t *testing.T) {
	_, ts := newTestRouter(t)

	resp, err := http.Get(ts.URL + "/api/v1/media?kind=hologram")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteMedia(t *testing.T) {
	_, ts := newTestRouter(t)

	resp := postJSON(t, ts.URL+"/api/v1/media/images", `{"device_id": "FF1", "samples": [1, 2]}`)
	record := decodeRecord(t, resp)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/media/%d", ts.URL, record.ID), nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer delResp.Body.Close()

	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", delResp.StatusCode)
	}

	// Second delete must 404.
	again, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", again.StatusCode)
	}
}

func TestDeleteMediaInvalidID(t *testing.T) {
	_, ts := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/media/abc", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
