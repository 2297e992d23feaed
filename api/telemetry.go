package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	fitzones "github.com/lucasjlepore/fit-zones"
	"github.com/lucasjlepore/fit-zones/export"
	"github.com/lucasjlepore/fit-zones/logger"
	"github.com/lucasjlepore/fit-zones/telemetry"
)

// Telemetry export kinds.
const (
	exportJSON    = "json"
	exportZones   = "zones"
	exportSamples = "samples"
)

// TelemetryHandler analyzes uploaded FIT files.
type TelemetryHandler struct {
	opts Options
}

// NewTelemetryHandler creates a new telemetry handler.
func NewTelemetryHandler(opts Options) *TelemetryHandler {
	return &TelemetryHandler{opts: opts.withDefaults()}
}

// HandlePostTelemetry handles POST /telemetry requests. The body is the raw
// FIT file, or a multipart form with the file under "file".
//
// Query: export=json|zones|samples, fields=a,b (samples; default core),
// format=csv|parquet (samples), signal=<field>.
func (h *TelemetryHandler) HandlePostTelemetry(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_telemetry"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	kind := strings.ToLower(strings.TrimSpace(q.Get("export")))
	if kind == "" {
		kind = exportJSON
	}
	if kind != exportJSON && kind != exportZones && kind != exportSamples {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unknown export %q", kind)))
		return
	}
	cfg := fitzones.Config{Signal: h.opts.Signal}
	if raw := q.Get("signal"); raw != "" {
		f, ok := telemetry.ParseField(raw)
		if !ok || !f.Numeric() {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("unsupported signal %q", raw)))
			return
		}
		cfg.Signal = f
	}
	format := h.opts.ExportFormat
	if raw := q.Get("format"); raw != "" {
		parsed, err := export.ParseFormat(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		format = parsed
	}
	var fields []string
	if raw := q.Get("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}

	name, data, err := h.readUpload(w, r)
	if err != nil {
		status := http.StatusBadRequest
		code := "bad_request"
		if errors.Is(err, ErrTooLarge) {
			status, code = http.StatusRequestEntityTooLarge, "too_large"
		}
		writeError(w, status, code, WrapKind(op, ErrBadRequest, err))
		return
	}

	analysis, err := fitzones.AnalyzeBytes(name, data, cfg)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unprocessable", fmt.Errorf("%s: %w", op, err))
		return
	}

	switch kind {
	case exportJSON:
		writeJSON(w, http.StatusOK, analysis)
	case exportZones:
		if analysis.Estimate == nil {
			writeError(w, http.StatusUnprocessableEntity, "no_threshold", fmt.Errorf("%s: %w", op, export.ErrNoThreshold))
			return
		}
		var buf bytes.Buffer
		if err := export.WriteZonesCSV(&buf, analysis.Bands); err != nil {
			h.fail(w, r, op, err)
			return
		}
		writeAttachment(w, export.ZonesFileName(analysis.Estimate), "text/csv", buf.Bytes())
	case exportSamples:
		h.writeSamples(w, r, analysis, format, fields)
	}
}

func (h *TelemetryHandler) writeSamples(w http.ResponseWriter, r *http.Request, a *fitzones.Analysis, format export.Format, fields []string) {
	const op = "api.post_telemetry"
	s := a.Session()
	sel := export.DefaultSelection(s)
	if len(fields) > 0 {
		parsed, err := export.ParseSelection(fields)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		sel = parsed
	}

	var buf bytes.Buffer
	var err error
	contentType := "text/csv"
	if format == export.Parquet {
		contentType = "application/vnd.apache.parquet"
		err = export.WriteSamplesParquet(&buf, s, sel, a.Estimate)
	} else {
		err = export.WriteSamplesCSV(&buf, s, sel, a.Estimate)
	}
	if errors.Is(err, export.ErrNoColumns) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeAttachment(w, export.SamplesFileName(s, format), contentType, buf.Bytes())
}

func (h *TelemetryHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.opts.Logger.Error(r.Context(), "telemetry export failed", logger.String("op", op), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", fmt.Errorf("%s: %w", op, err))
}

func (h *TelemetryHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, uploadError(err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, uploadError(err)
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, uploadError(err)
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty body")
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "upload.fit"
	}
	return name, data, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit %d bytes", ErrTooLarge, tooLarge.Limit)
	}
	return err
}

func writeAttachment(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
