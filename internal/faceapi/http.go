package faceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// doGetJSON performs a GET request and unmarshals the JSON response into the
// result type. The endpoint is the path after the base URL (e.g., "persons/3").
func doGetJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	body, err := c.do(ctx, http.MethodGet, endpoint, "", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[T](body)
}

// doPostJSON performs a POST request with a JSON body.
func doPostJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodPost, endpoint, requestBody, http.StatusOK, http.StatusCreated)
}

// doPutJSON performs a PUT request with a JSON body.
func doPutJSON[T any](ctx context.Context, c *Client, endpoint string, requestBody any) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodPut, endpoint, requestBody, http.StatusOK)
}

// doDeleteJSON performs a DELETE request.
func doDeleteJSON[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return doRequestJSON[T](ctx, c, http.MethodDelete, endpoint, nil, http.StatusOK, http.StatusNoContent)
}

// doRequestJSON is the shared helper for requests with JSON bodies and
// responses. It accepts one or more valid status codes.
func doRequestJSON[T any](ctx context.Context, c *Client, method, endpoint string, requestBody any, expected ...int) (*T, error) {
	var body []byte
	contentType := ""
	if requestBody != nil {
		jsonBody, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request body: %w", err)
		}
		body = jsonBody
		contentType = "application/json"
	}

	respBody, err := c.do(ctx, method, endpoint, contentType, body, expected...)
	if err != nil {
		return nil, err
	}
	if len(respBody) == 0 {
		return new(T), nil
	}
	return unmarshalResponse[T](respBody)
}

func marshalJSON(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request body: %w", err)
	}
	return body, nil
}

func unmarshalResponse[T any](body []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not unmarshal response: %w", err)
	}
	return &result, nil
}
