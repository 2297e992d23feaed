package api_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tormoder/fit"

	"github.com/lucasjlepore/fit-zones/api"
	"github.com/lucasjlepore/fit-zones/race"
)

const header = "Pos,Bib No,Name,Country,Swim,T1,Run,Time,Swim_seconds,T1_seconds,Run_seconds\n"

func dataset() fstest.MapFS {
	return fstest.MapFS{
		"Sprint_20240615_Elite_processed.csv": {Data: []byte(header +
			"1,10,Ana Silva,POR,00:10:00,00:01:00,00:20:00,00:31:00,600,60,1200\n" +
			"2,11,Beth Jones,GBR,00:11:00,00:01:10,00:21:00,00:33:10,660,70,1260\n")},
		"Sprint_20240615_AgeGroup_processed.csv": {Data: []byte(header +
			"1,20,Dan Wu,CHN,00:11:40,00:01:20,00:21:40,00:34:40,700,80,1300\n")},
	}
}

func newTestServer(fsys fstest.MapFS) *http.ServeMux {
	catalog, err := race.NewCatalog(context.Background(), fsys)
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(catalog, api.Options{MaxUploadBytes: 1 << 20}).Register(mux)
	return mux
}

func buildFIT() []byte {
	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	So(err, ShouldBeNil)
	activity, err := file.Activity()
	So(err, ShouldBeNil)
	start := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	for i := 0; i <= 30; i++ {
		rec := fit.NewRecordMsg()
		rec.Timestamp = start.Add(time.Duration(i) * time.Minute)
		rec.HeartRate = 160
		rec.Power = 200
		activity.Records = append(activity.Records, rec)
	}
	var buf bytes.Buffer
	So(fit.Encode(&buf, file, binary.LittleEndian), ShouldBeNil)
	return buf.Bytes()
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRaceEndpoints(t *testing.T) {
	Convey("Given an API server over a race dataset", t, func() {
		fsys := dataset()
		mux := newTestServer(fsys)

		Convey("GET /healthz reports the event count", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"events":1`)
		})

		Convey("GET /events lists events with categories", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/events", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Events []race.EventInfo `json:"events"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(len(body.Events), ShouldEqual, 1)
			So(body.Events[0].Label, ShouldEqual, "Sprint (2024-06-15)")
			So(body.Events[0].Categories, ShouldResemble, []string{"AgeGroup", "Elite"})
		})

		Convey("GET /results aggregates every category by default", func() {
			req := httptest.NewRequest(http.MethodGet, "/results?event=Sprint+%282024-06-15%29&stat=median&name=ana+silva", nil)
			rec := serve(mux, req)
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body struct {
				Categories []string        `json:"categories"`
				Statistic  string          `json:"statistic"`
				Summary    race.Summary    `json:"summary"`
				Projection race.Projection `json:"projection"`
				Standings  []race.Standing `json:"standings"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Categories, ShouldResemble, []string{"AgeGroup", "Elite"})
			So(body.Statistic, ShouldEqual, "median")
			So(body.Summary.Participants, ShouldEqual, 3)
			So(body.Projection.Lines[1].Label, ShouldEqual, "Median Swim: 660s (00:11:00)")
			So(body.Projection.Points[1].Priority, ShouldEqual, race.PriorityHighlight)
			So(body.Standings[0].Name, ShouldEqual, "Dan Wu")
		})

		Convey("GET /results with a blank category selection is empty, not an error", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/results?event=Sprint+%282024-06-15%29&category=", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"empty":true`)
		})

		Convey("GET /results rejects unknown events, categories and statistics", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/results?event=Nope", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			rec = serve(mux, httptest.NewRequest(http.MethodGet, "/results?event=Sprint+%282024-06-15%29&category=Masters", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			rec = serve(mux, httptest.NewRequest(http.MethodGet, "/results?event=Sprint+%282024-06-15%29&stat=mode", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			rec = serve(mux, httptest.NewRequest(http.MethodGet, "/results", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("POST /events/reload picks up new files", func() {
			fsys["Duathlon_20230501_Open_processed.csv"] = &fstest.MapFile{Data: []byte(header)}
			rec := serve(mux, httptest.NewRequest(http.MethodPost, "/events/reload", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Duathlon (2023-05-01)")

			rec = serve(mux, httptest.NewRequest(http.MethodGet, "/events/reload", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("GET /metrics exposes the registry", func() {
			serve(mux, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "fitzones_http_requests_total")
		})
	})
}

func TestTelemetryEndpoint(t *testing.T) {
	Convey("Given an API server and a FIT upload", t, func() {
		mux := newTestServer(dataset())
		data := buildFIT()

		Convey("export=json returns the analysis", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodPost, "/telemetry?name=ride.fit", bytes.NewReader(data)))
			So(rec.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Source   string `json:"source"`
				Samples  int    `json:"samples"`
				Estimate struct {
					Threshold float64 `json:"threshold"`
				} `json:"estimate"`
			}
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Source, ShouldEqual, "ride.fit")
			So(body.Samples, ShouldEqual, 31)
			So(body.Estimate.Threshold, ShouldAlmostEqual, 152.0, 1e-9)
		})

		Convey("export=zones returns the zones CSV as an attachment", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodPost, "/telemetry?export=zones", bytes.NewReader(data)))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Disposition"), ShouldContainSubstring, "heart_rate_zones_lthr_152.csv")
			So(strings.HasPrefix(rec.Body.String(), "Zone,Name,Min_HR,Max_HR,Percentage"), ShouldBeTrue)
		})

		Convey("export=samples honours the field selection", func() {
			req := httptest.NewRequest(http.MethodPost, "/telemetry?export=samples&fields=power", bytes.NewReader(data))
			rec := serve(mux, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(strings.SplitN(rec.Body.String(), "\n", 2)[0], ShouldEqual, "power")
		})

		Convey("multipart uploads are accepted", func() {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			part, err := mw.CreateFormFile("file", "upload.fit")
			So(err, ShouldBeNil)
			_, err = part.Write(data)
			So(err, ShouldBeNil)
			So(mw.Close(), ShouldBeNil)

			req := httptest.NewRequest(http.MethodPost, "/telemetry", &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := serve(mux, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"source":"upload.fit"`)
		})

		Convey("bad input is rejected", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodPost, "/telemetry", strings.NewReader("garbage")))
			So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
			rec = serve(mux, httptest.NewRequest(http.MethodPost, "/telemetry?export=pdf", bytes.NewReader(data)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			rec = serve(mux, httptest.NewRequest(http.MethodPost, "/telemetry?export=samples&fields=bogus", bytes.NewReader(data)))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			rec = serve(mux, httptest.NewRequest(http.MethodPost, "/telemetry", nil))
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
