package faceapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// ListPersons fetches a page of registered persons.
func (c *Client) ListPersons(ctx context.Context, skip, limit int) ([]Person, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	persons, err := doGetJSON[[]Person](ctx, c, "persons?"+q.Encode())
	if err != nil {
		return nil, err
	}
	return *persons, nil
}

// GetPerson fetches a single person by ID.
func (c *Client) GetPerson(ctx context.Context, id string) (*Person, error) {
	return doGetJSON[Person](ctx, c, "persons/"+url.PathEscape(id))
}

// CreatePerson registers a new person.
func (c *Client) CreatePerson(ctx context.Context, create PersonCreate) (*Person, error) {
	return doPostJSON[Person](ctx, c, "persons", create)
}

// UpdatePerson applies a partial update.
func (c *Client) UpdatePerson(ctx context.Context, id string, update PersonUpdate) (*Person, error) {
	return doPutJSON[Person](ctx, c, "persons/"+url.PathEscape(id), update)
}

// DeletePerson removes a person and their enrolled photos.
func (c *Client) DeletePerson(ctx context.Context, id string) error {
	_, err := doDeleteJSON[Person](ctx, c, "persons/"+url.PathEscape(id))
	return err
}

// AddPersonPhoto uploads an enrollment photo as multipart form data. The
// reader may wrap a progress bar; fileName is used for the form part only.
func (c *Client) AddPersonPhoto(ctx context.Context, id, fileName string, photo io.Reader) (*Person, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("could not copy photo data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not close multipart writer: %w", err)
	}

	endpoint := "persons/" + url.PathEscape(id) + "/photos"
	respBody, err := c.do(ctx, http.MethodPost, endpoint, writer.FormDataContentType(), body.Bytes(), http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Person](respBody)
}
