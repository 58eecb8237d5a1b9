package faceapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/facedeck/facedeck/internal/imaging"
	"github.com/facedeck/facedeck/internal/recognition"
)

// Identify submits a still image for identification as base64 JSON. A zero
// threshold leaves the backend's default in effect. The returned result is
// already normalized.
func (c *Client) Identify(ctx context.Context, imageData []byte, threshold float64) (recognition.Result, error) {
	payload := map[string]any{
		"image": imaging.ToBase64(imageData),
	}
	if threshold > 0 {
		payload["threshold"] = threshold
	}

	raw, err := doPostJSON[recognition.Result](ctx, c, "recognition/identify", payload)
	if err != nil {
		return recognition.Result{}, err
	}
	result, err := recognition.Normalize(*raw)
	if err != nil {
		return result, fmt.Errorf("backend returned an inconsistent result: %w", err)
	}
	return result, nil
}

// IdentifyWebcam submits a captured frame as a multipart blob.
func (c *Client) IdentifyWebcam(ctx context.Context, frame []byte) (recognition.Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "webcam.jpg")
	if err != nil {
		return recognition.Result{}, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(frame); err != nil {
		return recognition.Result{}, fmt.Errorf("could not write frame data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return recognition.Result{}, fmt.Errorf("could not close multipart writer: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "recognition/webcam", writer.FormDataContentType(), body.Bytes())
	if err != nil {
		return recognition.Result{}, err
	}

	raw, err := unmarshalResponse[recognition.Result](respBody)
	if err != nil {
		return recognition.Result{}, err
	}
	result, err := recognition.Normalize(*raw)
	if err != nil {
		return result, fmt.Errorf("backend returned an inconsistent result: %w", err)
	}
	return result, nil
}

// Verify checks a captured image against one specific person.
func (c *Client) Verify(ctx context.Context, personID string, imageData []byte, threshold float64) (recognition.Result, error) {
	payload := map[string]any{
		"person_id": personID,
		"image":     imaging.ToBase64(imageData),
	}
	if threshold > 0 {
		payload["threshold"] = threshold
	}

	raw, err := doPostJSON[recognition.Result](ctx, c, "recognition/verify", payload)
	if err != nil {
		return recognition.Result{}, err
	}
	result, err := recognition.Normalize(*raw)
	if err != nil {
		return result, fmt.Errorf("backend returned an inconsistent result: %w", err)
	}
	return result, nil
}

// RecognitionLogs fetches a page of the backend's audit trail. status
// filters by outcome when non-empty.
func (c *Client) RecognitionLogs(ctx context.Context, page, size int, status string) (*RecognitionLogPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if status != "" {
		q.Set("status", status)
	}
	return doGetJSON[RecognitionLogPage](ctx, c, "recognition/logs?"+q.Encode())
}

// RecognitionStats fetches the backend's recognition summary.
func (c *Client) RecognitionStats(ctx context.Context) (*RecognitionStats, error) {
	return doGetJSON[RecognitionStats](ctx, c, "recognition/stats")
}
