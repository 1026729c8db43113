// Package upload implements the wire protocol that moves one recording's
// payload to the remote media host and registers the finished asset with
// the application backend.
//
// One attempt runs four steps in order: ticket request, chunk split,
// sequential chunk transfer, registration. Chunks must be sent in order
// (the host's resumable-upload semantics depend on monotonically
// increasing Content-Range byte offsets) and only the final chunk's
// response carries the finished asset's identifier.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TravisBumgarner/just-recordings/internal/client/models"
	"github.com/TravisBumgarner/just-recordings/internal/common"
	"github.com/TravisBumgarner/just-recordings/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// DefaultUploadBase is the remote media host's API root.
const DefaultUploadBase = "https://api.cloudinary.com"

// Ticket is a signed, time-boxed upload authorization issued by the
// application backend.
type Ticket struct {
	Signature    string   `json:"signature"`
	Timestamp    int64    `json:"timestamp"`
	CloudName    string   `json:"cloudName"`
	APIKey       string   `json:"apiKey"`
	Folder       string   `json:"folder"`
	Tags         []string `json:"tags"`
	ResourceType string   `json:"resourceType"`
}

// Registered is the backend's record of a finished upload.
type Registered struct {
	ID           string    `json:"id"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// chunkAck is the media host's response. Intermediate chunks return a
// bare transport acknowledgement; only the final chunk carries the
// asset's permanent identifier and URL.
type chunkAck struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

type registerRequest struct {
	CloudinaryPublicID string `json:"cloudinaryPublicId"`
	CloudinaryURL      string `json:"cloudinaryUrl"`
	Filename           string `json:"filename"`
	Duration           int64  `json:"duration"`
}

// TokenProvider supplies the optional backend bearer token. A missing
// token omits the Authorization header rather than failing.
type TokenProvider interface {
	Token(ctx context.Context) (string, bool)
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	// UploadBase overrides DefaultUploadBase (used by tests).
	UploadBase string

	// ChunkSize overrides DefaultChunkSize (used by tests).
	ChunkSize int

	// Timeout bounds each HTTP request. A timeout surfaces as an
	// ordinary upload error, never a stuck status.
	Timeout time.Duration

	Tokens TokenProvider
	Logger logging.Logger
}

// Client performs one full upload attempt per call. Retrying restarts
// chunking from byte 0 with a fresh attempt id; there is no cross-attempt
// resume.
type Client struct {
	http        *resty.Client
	backendBase string
	uploadBase  string
	chunkSize   int
	tokens      TokenProvider
	log         logging.Logger
}

func NewClient(backendBase string, opts Options) *Client {
	uploadBase := opts.UploadBase
	if uploadBase == "" {
		uploadBase = DefaultUploadBase
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	httpClient := resty.New()
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	return &Client{
		http:        httpClient,
		backendBase: strings.TrimRight(backendBase, "/"),
		uploadBase:  strings.TrimRight(uploadBase, "/"),
		chunkSize:   chunkSize,
		tokens:      opts.Tokens,
		log:         opts.Logger,
	}
}

// Upload runs one attempt for rec and returns the backend's registration.
// progress, if non-nil, receives the acknowledged percentage after each
// chunk.
func (c *Client) Upload(ctx context.Context, rec *models.Recording, progress func(pct int)) (*Registered, error) {
	ticket, err := c.requestTicket(ctx)
	if err != nil {
		return nil, err
	}

	chunks := SplitChunks(rec.Payload, c.chunkSize)
	if len(chunks) == 0 {
		return nil, common.ErrEmptyPayload
	}

	ack, err := c.sendChunks(ctx, ticket, rec, chunks, progress)
	if err != nil {
		return nil, err
	}

	return c.register(ctx, rec, ack)
}

func (c *Client) requestTicket(ctx context.Context) (*Ticket, error) {
	ticket := &Ticket{}
	resp, err := c.backendRequest(ctx).
		SetResult(ticket).
		Post(c.backendBase + "/upload/signature")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTicketRequest, err)
	}
	if resp.IsError() {
		return nil, respError(common.ErrTicketRequest, resp)
	}
	return ticket, nil
}

func (c *Client) sendChunks(ctx context.Context, ticket *Ticket, rec *models.Recording, chunks [][]byte, progress func(pct int)) (*chunkAck, error) {
	resourceType := ticket.ResourceType
	if resourceType == "" {
		resourceType = "video"
	}
	uploadURL := fmt.Sprintf("%s/v1_1/%s/%s/upload", c.uploadBase, ticket.CloudName, resourceType)

	// one attempt id spans every chunk of this attempt
	attemptID := uuid.NewString()
	total := len(rec.Payload)
	sent := 0

	if c.log != nil {
		c.log.Info(ctx, "starting chunked upload",
			"recording", rec.ID, "chunks", len(chunks), "bytes", total, "attempt", attemptID)
	}

	var ack chunkAck
	for i, chunk := range chunks {
		start := sent
		end := sent + len(chunk) - 1

		resp, err := c.http.R().
			SetContext(ctx).
			SetFileReader("file", rec.Name, bytes.NewReader(chunk)).
			SetFormData(map[string]string{
				"api_key":   ticket.APIKey,
				"timestamp": strconv.FormatInt(ticket.Timestamp, 10),
				"signature": ticket.Signature,
				"folder":    ticket.Folder,
				"tags":      strings.Join(ticket.Tags, ","),
			}).
			SetHeader("X-Unique-Upload-Id", attemptID).
			SetHeader("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, total)).
			Post(uploadURL)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d/%d: %v", common.ErrChunkUpload, i+1, len(chunks), err)
		}
		if resp.IsError() {
			return nil, respError(common.ErrChunkUpload, resp)
		}

		sent = end + 1
		if progress != nil {
			progress(sent * 100 / total)
		}

		if i == len(chunks)-1 {
			if err := json.Unmarshal(resp.Body(), &ack); err != nil {
				return nil, fmt.Errorf("%w: malformed final chunk response: %v", common.ErrChunkUpload, err)
			}
		}
	}

	if ack.PublicID == "" || ack.SecureURL == "" {
		return nil, fmt.Errorf("%w: final chunk response missing asset identifier", common.ErrChunkUpload)
	}
	return &ack, nil
}

func (c *Client) register(ctx context.Context, rec *models.Recording, ack *chunkAck) (*Registered, error) {
	registered := &Registered{}
	resp, err := c.backendRequest(ctx).
		SetBody(registerRequest{
			CloudinaryPublicID: ack.PublicID,
			CloudinaryURL:      ack.SecureURL,
			Filename:           rec.Name,
			Duration:           rec.DurationMs,
		}).
		SetResult(registered).
		Post(c.backendBase + "/recordings")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRegistration, err)
	}
	if resp.IsError() {
		return nil, respError(common.ErrRegistration, resp)
	}
	return registered, nil
}

func (c *Client) backendRequest(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.SetAuthToken(token)
		}
	}
	return req
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respError surfaces the response's error message when available, else a
// generic status-derived message, wrapped in the step's error kind.
func respError(kind error, resp *resty.Response) error {
	var e apiError
	if err := json.Unmarshal(resp.Body(), &e); err == nil {
		if e.Error != "" {
			return fmt.Errorf("%w: %s", kind, e.Error)
		}
		if e.Message != "" {
			return fmt.Errorf("%w: %s", kind, e.Message)
		}
	}
	return fmt.Errorf("%w: unexpected status %s", kind, resp.Status())
}
