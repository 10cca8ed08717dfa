// Package telegraph is a small client for the Telegraph hosting API:
// binary upload, page creation, and account creation.
package telegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/memohai/telegraph-relay/internal/media"
)

const maxResponseBytes = 1 << 20

// Client talks to the Telegraph API and upload endpoints.
type Client struct {
	apiURL      string
	uploadURL   string
	accessToken string
	http        *http.Client
	logger      *slog.Logger
}

// Options configures a Client. Empty URLs fall back to the public Telegraph endpoints.
type Options struct {
	APIURL      string
	UploadURL   string
	AccessToken string
	HTTPClient  *http.Client
}

// UploadedFile is one entry of the upload endpoint's response.
type UploadedFile struct {
	Src string `json:"src"`
}

// PageInput holds the fields sent to createPage.
type PageInput struct {
	Title      string
	AuthorName string
	AuthorURL  string
	Content    []Node
}

// Page is the created page.
type Page struct {
	Path  string `json:"path"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// AccountInput holds the fields sent to createAccount.
type AccountInput struct {
	ShortName  string `json:"short_name"`
	AuthorName string `json:"author_name,omitempty"`
	AuthorURL  string `json:"author_url,omitempty"`
}

// Account is the created Telegraph account.
type Account struct {
	ShortName   string `json:"short_name"`
	AuthorName  string `json:"author_name"`
	AuthorURL   string `json:"author_url"`
	AccessToken string `json:"access_token"`
	AuthURL     string `json:"auth_url"`
}

// APIError is an {"ok":false} answer or an {"error":...} upload answer.
type APIError struct {
	Method  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegraph %s: %s", e.Method, e.Message)
}

// NewClient creates a Telegraph client.
func NewClient(log *slog.Logger, opts Options) *Client {
	if log == nil {
		log = slog.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	apiURL := strings.TrimRight(strings.TrimSpace(opts.APIURL), "/")
	if apiURL == "" {
		apiURL = "https://api.telegra.ph"
	}
	uploadURL := strings.TrimRight(strings.TrimSpace(opts.UploadURL), "/")
	if uploadURL == "" {
		uploadURL = "https://telegra.ph"
	}
	return &Client{
		apiURL:      apiURL,
		uploadURL:   uploadURL,
		accessToken: strings.TrimSpace(opts.AccessToken),
		http:        httpClient,
		logger:      log.With(slog.String("client", "telegraph")),
	}
}

// ResolveSrc turns a relative upload path ("/file/x.jpg") into an absolute URL on the upload host.
func (c *Client) ResolveSrc(src string) string {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if !strings.HasPrefix(src, "/") {
		src = "/" + src
	}
	return c.uploadURL + src
}

// Upload streams the file at path to the upload endpoint as multipart field "file".
// name is the file name advertised in the form; empty means the base of path.
// The response list is returned as-is; callers validate its shape.
func (c *Client) Upload(ctx context.Context, path, name string) ([]UploadedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	if strings.TrimSpace(name) == "" {
		name = filepath.Base(path)
	}
	contentType := detectContentType(path, name)
	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	formType := form.FormDataContentType()
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
		header.Set("Content-Type", contentType)
		part, err := form.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = form.Close()
		}
		_ = writer.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/upload", body)
	if err != nil {
		_ = body.CloseWithError(err)
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", formType)

	resp, err := c.http.Do(req)
	if err != nil {
		_ = body.CloseWithError(err)
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload status %d: %s", resp.StatusCode, snippet(raw))
	}
	return decodeUpload(raw)
}

func decodeUpload(raw []byte) ([]UploadedFile, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		var files []UploadedFile
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return nil, fmt.Errorf("decode upload response: %w", err)
		}
		return files, nil
	case bytes.HasPrefix(trimmed, []byte("{")):
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &failure); err != nil {
			return nil, fmt.Errorf("decode upload response: %w", err)
		}
		if failure.Error == "" {
			failure.Error = "unexpected response object"
		}
		return nil, &APIError{Method: "upload", Message: failure.Error}
	default:
		return nil, fmt.Errorf("unexpected upload response: %s", snippet(raw))
	}
}

// CreatePage creates a page and returns it. The page URL must be present.
func (c *Client) CreatePage(ctx context.Context, input PageInput) (Page, error) {
	if c.accessToken == "" {
		return Page{}, errors.New("telegraph access token is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return Page{}, errors.New("page title is required")
	}
	if len(input.Content) == 0 {
		return Page{}, errors.New("page content is required")
	}
	payload := map[string]any{
		"access_token":   c.accessToken,
		"title":          input.Title,
		"content":        input.Content,
		"return_content": false,
	}
	if input.AuthorName != "" {
		payload["author_name"] = input.AuthorName
	}
	if input.AuthorURL != "" {
		payload["author_url"] = input.AuthorURL
	}
	var page Page
	if err := c.call(ctx, "createPage", payload, &page); err != nil {
		return Page{}, err
	}
	if strings.TrimSpace(page.URL) == "" {
		return Page{}, &APIError{Method: "createPage", Message: "response has no url"}
	}
	c.logger.Info("page created", slog.String("url", page.URL))
	return page, nil
}

// CreateAccount registers a new Telegraph account.
func (c *Client) CreateAccount(ctx context.Context, input AccountInput) (Account, error) {
	if strings.TrimSpace(input.ShortName) == "" {
		return Account{}, errors.New("short name is required")
	}
	var account Account
	if err := c.call(ctx, "createAccount", input, &account); err != nil {
		return Account{}, err
	}
	if account.AccessToken == "" {
		return Account{}, &APIError{Method: "createAccount", Message: "response has no access_token"}
	}
	return account, nil
}

type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+method, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s status %d: %s", method, resp.StatusCode, snippet(raw))
	}
	if !env.OK {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return &APIError{Method: method, Message: msg}
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func detectContentType(path, name string) string {
	if mt, err := mimetype.DetectFile(path); err == nil && !mt.Is("application/octet-stream") {
		return mt.String()
	}
	return media.MimeFromExtension(filepath.Ext(name))
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

func snippet(raw []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
