package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medical-admin-dashboard/config"
	"medical-admin-dashboard/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const apiKeyHeader = "x-api-key"

// StatusError is returned for any non 2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client talks to the booking platform and its OCR service.
type Client struct {
	cfg        config.UpstreamConfig
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(cfg config.UpstreamConfig, log *logrus.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// VerifyDoctor reports a verification decision to the booking platform.
func (c *Client) VerifyDoctor(ctx context.Context, doctorID int, status entity.VerificationStatus) error {
	url := strings.TrimRight(c.cfg.VerifyDoctorURL, "/") + "/" + strconv.Itoa(doctorID)
	body := map[string]string{"verificationStatus": string(status)}
	return c.do(ctx, http.MethodPut, url, body, true, nil)
}

type ocrResponse struct {
	Nama               string `json:"NAMA"`
	NIK                string `json:"NIK"`
	TempatTanggalLahir string `json:"Tempat Tanggal Lahir"`
	Alamat             string `json:"ALAMAT"`
	JenisKelamin       string `json:"JENIS KELAMIN"`
}

// ReadCard runs OCR on the identity card image at imageURL.
func (c *Client) ReadCard(ctx context.Context, imageURL string) (*entity.OcrCard, error) {
	var res ocrResponse
	body := map[string]string{"image_url": imageURL}
	if err := c.do(ctx, http.MethodPost, c.cfg.OcrURL, body, false, &res); err != nil {
		return nil, err
	}
	return &entity.OcrCard{
		Nama:               res.Nama,
		NIK:                res.NIK,
		TempatTanggalLahir: res.TempatTanggalLahir,
		Alamat:             res.Alamat,
		JenisKelamin:       res.JenisKelamin,
	}, nil
}

// FetchDataset downloads the six exports concurrently. Any failed export
// fails the whole fetch.
func (c *Client) FetchDataset(ctx context.Context) (*entity.Dataset, error) {
	var d entity.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.fetchList(gctx, c.cfg.DoctorsURL, &d.Doctors) })
	g.Go(func() error { return c.fetchList(gctx, c.cfg.DoctorFeedbacksURL, &d.DoctorFeedbacks) })
	g.Go(func() error { return c.fetchList(gctx, c.cfg.DoctorProfilesURL, &d.DoctorProfiles) })
	g.Go(func() error { return c.fetchList(gctx, c.cfg.ClinicHistoriesURL, &d.ClinicHistories) })
	g.Go(func() error { return c.fetchList(gctx, c.cfg.ConsultationHistoriesURL, &d.ConsultationHistories) })
	g.Go(func() error { return c.fetchList(gctx, c.cfg.ClinicFeedbacksURL, &d.ClinicFeedbacks) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) fetchList(ctx context.Context, url string, out interface{}) error {
	envelope := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	return c.do(ctx, http.MethodGet, url, nil, true, &envelope)
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}, withKey bool, out interface{}) error {
	if url == "" {
		return fmt.Errorf("%s: upstream URL is not configured", method)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if withKey && c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Upstream request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, url, err)
	}
	return nil
}
