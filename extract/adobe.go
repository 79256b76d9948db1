package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pdfcon/config"
)

const (
	defaultAdobeIMSURL      = "https://ims-na1.adobelogin.com"
	defaultAdobeServicesURL = "https://pdf-services.adobe.io"
	adobeIMSScope           = "openid,AdobeID,read_organizations"
)

// AdobeClient runs the PDF Services Extract flow: IMS token, asset upload,
// extract job, bounded status polling, then the result ZIP. No AI tokens
// are spent, so Tokens is always zero.
type AdobeClient struct {
	clientID     string
	clientSecret string
	imsURL       string
	servicesURL  string
	httpClient   *http.Client
	pollRetries  int
	pollInterval time.Duration
}

// NewAdobeClient builds a client for the production endpoints.
func NewAdobeClient(clientID, clientSecret string) *AdobeClient {
	return &AdobeClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		imsURL:       defaultAdobeIMSURL,
		servicesURL:  defaultAdobeServicesURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		pollRetries:  config.ExtractPollRetries,
		pollInterval: config.ExtractPollInterval,
	}
}

// NewAdobeClientWithBaseURLs is used by tests; it also shortens the poll
// interval so test jobs settle quickly.
func NewAdobeClientWithBaseURLs(clientID, clientSecret, imsURL, servicesURL string, pollInterval time.Duration) *AdobeClient {
	c := NewAdobeClient(clientID, clientSecret)
	c.imsURL = strings.TrimRight(imsURL, "/")
	c.servicesURL = strings.TrimRight(servicesURL, "/")
	c.pollInterval = pollInterval
	return c
}

// ExtractText runs the full extract flow and joins the text elements of
// structuredData.json with blank lines.
func (c *AdobeClient) ExtractText(ctx context.Context, pdf []byte) (*TextResult, error) {
	log.Printf("[Adobe] 1/5 requesting access token")
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	log.Printf("[Adobe] 2/5 uploading PDF (%d bytes)", len(pdf))
	assetID, err := c.uploadAsset(ctx, token, pdf)
	if err != nil {
		return nil, err
	}

	log.Printf("[Adobe] 3/5 creating extract job")
	jobID, err := c.createExtractJob(ctx, token, assetID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Adobe] 4/5 waiting for job %s", jobID)
	downloadURI, err := c.waitForJob(ctx, token, jobID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Adobe] 5/5 downloading result")
	text, err := c.downloadText(ctx, downloadURI)
	if err != nil {
		return nil, err
	}

	return &TextResult{
		Text:   text,
		Method: config.MethodAdobeExtract,
		Tokens: 0,
	}, nil
}

func (c *AdobeClient) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {adobeIMSScope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.imsURL+"/ims/token/v3", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("adobe: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("adobe: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("adobe: IMS returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("adobe: failed to decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", fmt.Errorf("adobe: IMS returned an empty access token")
	}
	return decoded.AccessToken, nil
}

func (c *AdobeClient) uploadAsset(ctx context.Context, token string, pdf []byte) (string, error) {
	payload := []byte(fmt.Sprintf(`{"mediaType":%q}`, config.PDFContentType))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.servicesURL+"/assets", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("adobe: failed to create asset request: %w", err)
	}
	c.setAuthHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("adobe: asset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("adobe: asset endpoint returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var decoded struct {
		AssetID   string `json:"assetID"`
		UploadURI string `json:"uploadUri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("adobe: failed to decode asset response: %w", err)
	}
	if decoded.AssetID == "" || decoded.UploadURI == "" {
		return "", fmt.Errorf("adobe: asset response missing assetID or uploadUri")
	}

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, decoded.UploadURI, bytes.NewReader(pdf))
	if err != nil {
		return "", fmt.Errorf("adobe: failed to create upload request: %w", err)
	}
	putReq.Header.Set("Content-Type", config.PDFContentType)

	putResp, err := c.httpClient.Do(putReq)
	if err != nil {
		return "", fmt.Errorf("adobe: PDF upload failed: %w", err)
	}
	defer putResp.Body.Close()

	if putResp.StatusCode < 200 || putResp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(putResp.Body)
		return "", fmt.Errorf("adobe: PDF upload returned %d: %s", putResp.StatusCode, string(bodyBytes))
	}

	return decoded.AssetID, nil
}

func (c *AdobeClient) createExtractJob(ctx context.Context, token, assetID string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"assetID":             assetID,
		"elementsToExtract":   []string{"text"},
		"renditionsToExtract": []string{},
	})
	if err != nil {
		return "", fmt.Errorf("adobe: failed to marshal job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.servicesURL+"/operation/extractpdf", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("adobe: failed to create job request: %w", err)
	}
	c.setAuthHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("adobe: job request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("adobe: job endpoint returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("adobe: job response has no Location header")
	}

	// Location is .../operation/extractpdf/{jobID}/status; the job ID is
	// the segment before "status".
	jobID := parseJobID(location)
	if jobID == "" {
		return "", fmt.Errorf("adobe: cannot parse job ID from Location %q", location)
	}
	return jobID, nil
}

func parseJobID(location string) string {
	parts := strings.Split(location, "/")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "status" {
			return parts[i-1]
		}
	}
	return ""
}

func (c *AdobeClient) waitForJob(ctx context.Context, token, jobID string) (string, error) {
	statusURL := fmt.Sprintf("%s/operation/extractpdf/%s/status", c.servicesURL, jobID)

	for attempt := 1; attempt <= c.pollRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return "", fmt.Errorf("adobe: failed to create status request: %w", err)
		}
		c.setAuthHeaders(req, token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("adobe: status request failed: %w", err)
		}

		var decoded struct {
			Status   string `json:"status"`
			Resource struct {
				DownloadURI string `json:"downloadUri"`
			} `json:"resource"`
			Content struct {
				DownloadURI string `json:"downloadUri"`
			} `json:"content"`
			Asset struct {
				DownloadURI string `json:"downloadUri"`
			} `json:"asset"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("adobe: status endpoint returned %d", resp.StatusCode)
		}
		if decodeErr != nil {
			return "", fmt.Errorf("adobe: failed to decode status response: %w", decodeErr)
		}

		switch decoded.Status {
		case "done":
			// Depending on API revision the ZIP URI shows up under
			// resource, content or asset.
			for _, uri := range []string{decoded.Resource.DownloadURI, decoded.Content.DownloadURI, decoded.Asset.DownloadURI} {
				if uri != "" {
					return uri, nil
				}
			}
			return "", fmt.Errorf("adobe: job done but no download URI in status response")
		case "failed":
			return "", fmt.Errorf("adobe: extract job %s failed", jobID)
		}

		log.Printf("[Adobe] job %s in progress (%d/%d)", jobID, attempt, c.pollRetries)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("adobe: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}

	return "", fmt.Errorf("adobe: job %s: %w", jobID, ErrPollTimeout)
}

func (c *AdobeClient) downloadText(ctx context.Context, downloadURI string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURI, nil)
	if err != nil {
		return "", fmt.Errorf("adobe: failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("adobe: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("adobe: download returned %d", resp.StatusCode)
	}

	zipBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("adobe: failed to read result ZIP: %w", err)
	}

	return extractTextFromResultZip(zipBytes)
}

// extractTextFromResultZip pulls structuredData.json out of the result
// archive and joins its element texts with blank lines.
func extractTextFromResultZip(zipBytes []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", fmt.Errorf("adobe: result is not a valid ZIP: %w", err)
	}

	var jsonFile *zip.File
	for _, f := range reader.File {
		if f.Name == "structuredData.json" {
			jsonFile = f
			break
		}
	}
	if jsonFile == nil {
		return "", fmt.Errorf("adobe: structuredData.json not found in result ZIP")
	}

	rc, err := jsonFile.Open()
	if err != nil {
		return "", fmt.Errorf("adobe: failed to open structuredData.json: %w", err)
	}
	defer rc.Close()

	var structured struct {
		Elements []struct {
			Text string `json:"Text"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(rc).Decode(&structured); err != nil {
		return "", fmt.Errorf("adobe: failed to decode structuredData.json: %w", err)
	}

	var parts []string
	for _, el := range structured.Elements {
		if el.Text != "" {
			parts = append(parts, el.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("adobe: %w", ErrEmptyResult)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (c *AdobeClient) setAuthHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-api-key", c.clientID)
}
