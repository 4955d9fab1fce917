// Package imgur is a thin client for the Imgur image API: upload an image,
// fetch its public link, delete it by its deletehash.
package imgur

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.imgur.com"

// RemoteError reports a failed call to the image host. It is a business
// error the caller may retry, not a crash.
type RemoteError struct {
	Op         string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("imgur: %s failed", e.Op)
	}
	return fmt.Sprintf("imgur: %s failed with status %d", e.Op, e.StatusCode)
}

// Image is the host's record of an uploaded image.
type Image struct {
	ID         string `json:"id"`
	Link       string `json:"link"`
	DeleteHash string `json:"deletehash"`
}

type apiResponse struct {
	Data    Image `json:"data"`
	Success bool  `json:"success"`
	Status  int   `json:"status"`
}

type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
	log         *slog.Logger
}

func NewClient(baseURL, accessToken string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 30 * time.Second},
		log:         log,
	}
}

// Upload posts the image bytes as multipart form data and returns the
// host's record, including the public link and the deletehash.
func (c *Client) Upload(ctx context.Context, image []byte) (Image, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "image")
	if err != nil {
		return Image{}, fmt.Errorf("encoding upload: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return Image{}, fmt.Errorf("encoding upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Image{}, fmt.Errorf("encoding upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/3/image", &buf)
	if err != nil {
		return Image{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.do(req, "upload")
	if err != nil {
		return Image{}, err
	}

	c.log.Info("image uploaded", "id", res.Data.ID, "link", res.Data.Link)
	return res.Data, nil
}

// Delete removes the remote image identified by its deletehash.
func (c *Client) Delete(ctx context.Context, deleteHash string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/3/image/"+deleteHash, nil)
	if err != nil {
		return err
	}

	if _, err := c.do(req, "delete"); err != nil {
		return err
	}

	c.log.Info("image deleted", "deleteHash", deleteHash)
	return nil
}

// Get returns the public link for the image with the given host id.
func (c *Client) Get(ctx context.Context, imageID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/3/image/"+imageID, nil)
	if err != nil {
		return "", err
	}

	res, err := c.do(req, "get")
	if err != nil {
		return "", err
	}

	return res.Data.Link, nil
}

func (c *Client) do(req *http.Request, op string) (*apiResponse, error) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("imgur call failed", "op", op, "err", err)
		return nil, &RemoteError{Op: op}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		c.log.Error("imgur call failed", "op", op, "status", resp.StatusCode)
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode}
	}

	var res apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		c.log.Error("imgur response undecodable", "op", op, "err", err)
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode}
	}

	return &res, nil
}
