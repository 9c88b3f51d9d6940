package client

import (
	"context"
	"encoding/json"
	"net/http"

	"ims-client/model"
)

// GenerateReport asks the backend to aggregate and decodes the result
// according to req.ReportType.
func (c *Client) GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{method: http.MethodPost, url: c.api("/api/reports/generate"), auth: true, body: req, out: &raw})
	if err != nil {
		return nil, err
	}
	return model.DecodeReport(req.ReportType, raw)
}
