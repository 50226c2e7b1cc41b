package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/ctxutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
)

// Findings produced by the scoring consistency checks are plain strings.
// These patterns recover the section / item the finding is about so the
// data-quality counter can be keyed by it.
var (
	scoreMismatchRe = regexp.MustCompile(`^Score mismatch for ([A-Za-z]+):`)
	invalidItemRe   = regexp.MustCompile(`Invalid item ID: (\d+)`)
	duplicateItemRe = regexp.MustCompile(`Duplicate responses for item (\d+)`)
	unmappedItemRe  = regexp.MustCompile(`No section mapping for item (\d+)`)
	itemLabelRe     = regexp.MustCompile(`^Item (\d+):`)
	sectionRe       = regexp.MustCompile(`(?i)section ([A-Za-z]+)`)
)

type dqAlertState struct {
	mu   sync.Mutex
	last map[string]time.Time
}

var dqAlerts dqAlertState

// ReportDataQualityFindings classifies consistency-check findings, bumps the
// data-quality counters and raises a throttled webhook alert. stage names the
// caller (e.g. "validate", "sweep"); errs are the finding strings as produced
// by the scoring checks.
func ReportDataQualityFindings(ctx context.Context, log *logger.Logger, stage string, errs []string, meta map[string]any) {
	if len(errs) == 0 {
		return
	}
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	if meta == nil {
		meta = map[string]any{}
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			meta["trace_id"] = td.TraceID
		}
		if td.RequestID != "" {
			meta["request_id"] = td.RequestID
		}
	}

	issueCounts := map[string]int{}
	sampleErrors := make([]string, 0, 3)
	for _, errStr := range errs {
		errStr = strings.TrimSpace(errStr)
		if errStr == "" {
			continue
		}
		if len(sampleErrors) < 3 {
			sampleErrors = append(sampleErrors, errStr)
		}
		issue, key := classifyFinding(errStr)
		incDataQuality(stage, issue, key)
		issueCounts[issue]++
	}

	if log != nil {
		log.Warn("data quality issue detected",
			"stage", stage,
			"issues", issueCounts,
			"sample_errors", sampleErrors,
			"meta", meta,
		)
	}
	sendDataQualityAlert(stage, issueCounts, sampleErrors, meta, log)
}

// ReportDataQualityIncompleteSections records sections with missing answers
// without routing them through string classification. keys are section names.
func ReportDataQualityIncompleteSections(ctx context.Context, log *logger.Logger, stage string, sections []string, meta map[string]any) {
	if len(sections) == 0 {
		return
	}
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}
	if meta == nil {
		meta = map[string]any{}
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			meta["trace_id"] = td.TraceID
		}
		if td.RequestID != "" {
			meta["request_id"] = td.RequestID
		}
	}
	issueCounts := map[string]int{}
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		incDataQuality(stage, "incomplete_responses", section)
		issueCounts["incomplete_responses"]++
	}
	if log != nil && len(issueCounts) > 0 {
		log.Warn("data quality incomplete sections", "stage", stage, "issues", issueCounts, "meta", meta)
	}
	sendDataQualityAlert(stage, issueCounts, nil, meta, log)
}

// classifyFinding maps one finding string onto an issue class and, when the
// text names a section or item, the key it concerns.
func classifyFinding(errStr string) (issue, key string) {
	if m := scoreMismatchRe.FindStringSubmatch(errStr); len(m) == 2 {
		return "score_mismatch", m[1]
	}
	if m := duplicateItemRe.FindStringSubmatch(errStr); len(m) == 2 {
		return "duplicate_item", m[1]
	}
	if m := invalidItemRe.FindStringSubmatch(errStr); len(m) == 2 {
		return "invalid_item", m[1]
	}
	if m := unmappedItemRe.FindStringSubmatch(errStr); len(m) == 2 {
		return "invalid_item", m[1]
	}
	if m := itemLabelRe.FindStringSubmatch(errStr); len(m) == 2 {
		return "invalid_label", m[1]
	}
	if m := sectionRe.FindStringSubmatch(errStr); len(m) == 2 {
		return "incomplete_responses", m[1]
	}
	lower := strings.ToLower(errStr)
	switch {
	case strings.Contains(lower, "assessment date"):
		return "date_inconsistency", ""
	case strings.Contains(lower, "age") || strings.Contains(lower, "birth date"):
		return "age_inconsistency", ""
	}
	return "validation_error", ""
}

func incDataQuality(stage, issue, key string) {
	metrics := Current()
	if metrics == nil {
		return
	}
	metrics.IncDataQuality(stage, issue, key)
}

func dataQualityAlertsEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("DATA_QUALITY_ALERTS_ENABLED")))
	if v == "" {
		return false
	}
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func dataQualityAlertWebhook() string {
	val := strings.TrimSpace(os.Getenv("DATA_QUALITY_ALERT_WEBHOOK_URL"))
	if val != "" {
		return val
	}
	return strings.TrimSpace(os.Getenv("SLO_ALERT_WEBHOOK_URL"))
}

func dataQualityAlertMinInterval() time.Duration {
	raw := strings.TrimSpace(os.Getenv("DATA_QUALITY_ALERT_MIN_INTERVAL_SECONDS"))
	if raw == "" {
		return 5 * time.Minute
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(seconds) * time.Second
}

func sendDataQualityAlert(stage string, issueCounts map[string]int, sampleErrors []string, meta map[string]any, log *logger.Logger) {
	if !dataQualityAlertsEnabled() {
		return
	}
	webhook := dataQualityAlertWebhook()
	if webhook == "" || len(issueCounts) == 0 {
		return
	}
	key := stage
	dqAlerts.mu.Lock()
	if dqAlerts.last == nil {
		dqAlerts.last = map[string]time.Time{}
	}
	last := dqAlerts.last[key]
	minInterval := dataQualityAlertMinInterval()
	if !last.IsZero() && time.Since(last) < minInterval {
		dqAlerts.mu.Unlock()
		return
	}
	dqAlerts.last[key] = time.Now()
	dqAlerts.mu.Unlock()

	payload := map[string]any{
		"title":         "Data quality issue",
		"stage":         stage,
		"issues":        issueCounts,
		"sample_errors": sampleErrors,
		"meta":          meta,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		if log != nil {
			log.Warn("data quality alert request build failed", "error", err, "stage", stage)
		}
		return
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		if log != nil {
			log.Warn("data quality alert post failed", "error", err, "stage", stage)
		}
		return
	}
	_ = resp.Body.Close()
	if log != nil {
		log.Info("data quality alert sent", "stage", stage, "status", resp.StatusCode)
	}
}
