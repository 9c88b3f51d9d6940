package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"ims-client/client"
	"ims-client/model"
)

// ReportView is the reports screen: a type, a date range and the last
// generated report.
type ReportView struct {
	api      client.ReportAPI
	sessions Sessions
	guard    *Guard
	logger   *log.Logger

	mu     sync.Mutex
	req    model.ReportRequest
	result *model.Report
	phase  Phase
	note   *Notification
	gen    uint64
}

func NewReportView(api client.ReportAPI, sessions Sessions, logger *log.Logger) *ReportView {
	if logger == nil {
		logger = log.Default()
	}
	return &ReportView{api: api, sessions: sessions, guard: NewGuard(sessions, nil), logger: logger}
}

// Mount checks the session. No report is generated until asked.
func (v *ReportView) Mount() error {
	return v.guard.Enter()
}

// Unmount drops any report still in flight.
func (v *ReportView) Unmount() {
	v.guard.Leave()
	v.mu.Lock()
	v.gen++
	if v.phase == Submitting {
		v.phase = Idle
	}
	v.mu.Unlock()
}

// SetType selects the report type and clears the previous result.
func (v *ReportView) SetType(t model.ReportType) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.req.ReportType != t {
		v.result = nil
	}
	v.req.ReportType = t
}

// SetRange sets the inclusive date range, both as YYYY-MM-DD.
func (v *ReportView) SetRange(start, end string) {
	v.mu.Lock()
	v.req.StartDate, v.req.EndDate = start, end
	v.mu.Unlock()
}

// SetParameter adds an extra report parameter; an empty value removes it.
func (v *ReportView) SetParameter(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if value == "" {
		delete(v.req.Parameters, key)
		return
	}
	if v.req.Parameters == nil {
		v.req.Parameters = map[string]string{}
	}
	v.req.Parameters[key] = value
}

// validate checks the request in order; the first failure wins.
func (v *ReportView) validate(req model.ReportRequest) *ValidationError {
	if !v.sessions.Current().Valid() {
		return invalid("token", "Authentication token missing.")
	}
	if !req.ReportType.Valid() {
		return invalid("reportType", "Please select a report type.")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return invalid("dates", "Please select both start and end dates.")
	}
	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return invalid("startDate", "Start date must be in YYYY-MM-DD format.")
	}
	end, err := time.Parse(model.DateLayout, req.EndDate)
	if err != nil {
		return invalid("endDate", "End date must be in YYYY-MM-DD format.")
	}
	if start.After(end) {
		return invalid("dates", "Start date cannot be after end date.")
	}
	return nil
}

// Generate validates the form and posts it. Validation failures are
// returned as *ValidationError without contacting the backend; a second
// call while one is in flight gets ErrBusy.
func (v *ReportView) Generate(ctx context.Context) (*model.Report, error) {
	v.mu.Lock()
	req := v.req
	if req.Parameters != nil {
		params := make(map[string]string, len(req.Parameters))
		for k, val := range req.Parameters {
			params[k] = val
		}
		req.Parameters = params
	}
	v.mu.Unlock()

	if verr := v.validate(req); verr != nil {
		v.mu.Lock()
		v.note = failure(verr.Message)
		v.mu.Unlock()
		if verr.Field == "token" {
			v.guard.toLogin()
		}
		return nil, verr
	}

	v.mu.Lock()
	if v.phase == Submitting {
		v.mu.Unlock()
		return nil, ErrBusy
	}
	v.phase = Submitting
	v.result = nil
	gen := v.gen
	v.mu.Unlock()

	report, err := v.api.GenerateReport(ctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return nil, context.Canceled
	}
	if err != nil {
		v.logger.Printf("reports: generate %s: %v", req.ReportType, err)
		v.phase = Failed
		v.note = failure(client.Message(err, "Failed to generate report. Please try again."))
		return nil, err
	}
	v.phase = Loaded
	v.result = report
	v.note = success(fmt.Sprintf("Report generated successfully for %s!", req.ReportType))
	return report, nil
}

// Result returns the last generated report, or nil.
func (v *ReportView) Result() *model.Report {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

func (v *ReportView) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

func (v *ReportView) Notification() *Notification {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.note == nil {
		return nil
	}
	n := *v.note
	return &n
}

func (v *ReportView) Dismiss() {
	v.mu.Lock()
	v.note = nil
	v.mu.Unlock()
}

func (v *ReportView) Redirect() *Redirect {
	return v.guard.Redirect()
}
