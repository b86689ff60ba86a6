// Package dashboard reads the authenticated dashboard endpoints.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"scan-dashboard/internal/common/errors"
	apihttp "scan-dashboard/internal/common/http"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/common/validation"
)

const (
	PathOverview             = "/dashboard/overview/"
	PathScanActivity         = "/dashboard/scan-activity/"
	PathCategoryDistribution = "/dashboard/category-distribution/"
	PathSystemStatus         = "/dashboard/system-status/"
)

type Service struct {
	client *apihttp.Client
	log    logger.Logger
}

func NewService(client *apihttp.Client, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{client: client, log: log.WithFields(map[string]interface{}{"component": "dashboard"})}
}

func (s *Service) Overview(ctx context.Context) (*Overview, *apihttp.APIResponse, error) {
	var out Overview
	resp, err := s.fetch(ctx, PathOverview, nil, &out)
	if err != nil || !resp.Success {
		return nil, resp, err
	}
	return &out, resp, nil
}

// ScanActivity rejects an unknown period without calling the backend.
func (s *Service) ScanActivity(ctx context.Context, period Period) (*ScanActivity, *apihttp.APIResponse, error) {
	if !period.Valid() {
		res := &validation.ValidationResult{Valid: true}
		res.Add("period", "enum", fmt.Sprintf("period must be one of %v", Periods))
		return nil, apihttp.ValidationFailure(res), nil
	}

	out := ScanActivity{Period: period}
	resp, err := s.fetch(ctx, PathScanActivity, url.Values{"period": {string(period)}}, &out)
	if err != nil || !resp.Success {
		return nil, resp, err
	}
	if out.Period == "" {
		out.Period = period
	}
	return &out, resp, nil
}

func (s *Service) CategoryDistribution(ctx context.Context) (*CategoryDistribution, *apihttp.APIResponse, error) {
	var out CategoryDistribution
	resp, err := s.fetch(ctx, PathCategoryDistribution, nil, &out)
	if err != nil || !resp.Success {
		return nil, resp, err
	}
	return &out, resp, nil
}

func (s *Service) SystemStatus(ctx context.Context) (*SystemStatus, *apihttp.APIResponse, error) {
	var out SystemStatus
	resp, err := s.fetch(ctx, PathSystemStatus, nil, &out)
	if err != nil || !resp.Success {
		return nil, resp, err
	}
	return &out, resp, nil
}

// fetch performs an authenticated GET and decodes the result into v.
func (s *Service) fetch(ctx context.Context, endpoint string, query url.Values, v interface{}) (*apihttp.APIResponse, error) {
	resp, err := s.client.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		s.log.Warn("Dashboard request failed", map[string]interface{}{
			"endpoint": endpoint,
			"kind":     string(resp.Kind),
			"message":  resp.Message,
		})
		return resp, nil
	}
	if err := decodeData(resp, v); err != nil {
		return resp, err
	}
	return resp, nil
}

// decodeData reads the "data" field when the backend wraps its answer and
// the top-level fields otherwise. A bare list is decoded into the single
// slice field of v.
func decodeData(resp *apihttp.APIResponse, v interface{}) error {
	raw := resp.Raw
	if data, ok := resp.Payload["data"]; ok {
		raw = data
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.NewParseError(fmt.Errorf("empty dashboard response"))
	}

	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		switch out := v.(type) {
		case *ScanActivity:
			return unmarshal(raw, &out.Activity)
		case *CategoryDistribution:
			return unmarshal(raw, &out.Categories)
		case *SystemStatus:
			return unmarshal(raw, &out.Services)
		}
	}
	return unmarshal(raw, v)
}

func unmarshal(raw []byte, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}
