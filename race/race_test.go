package race

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const header = "Pos,Bib No,Name,Country,Swim,T1,Run,Time,Swim_seconds,T1_seconds,Run_seconds\n"

func dataset() fstest.MapFS {
	return fstest.MapFS{
		"Sprint_20240615_Elite_processed.csv": {Data: []byte(header +
			"1,10,Ana Silva,POR,00:10:00,00:01:00,00:20:00,00:31:00,600,60,1200\n" +
			"2,11,Beth Jones,GBR,00:11:00,00:01:10,00:21:00,00:33:10,660,70,1260\n" +
			"DNF,12,Carl Diaz,ESP,00:12:00,,,,720,,\n")},
		"Sprint_20240615_AgeGroup_processed.csv": {Data: []byte(header +
			"1,20,Dan Wu,CHN,00:11:40,00:01:20,00:21:40,00:34:40,700,80,1300\n" +
			"3,21,Ana Silvano,BRA,00:13:20,00:01:30,00:23:20,00:38:10,800,90,1400\n")},
		"Sprint_20240615_Elite_processed_processed.csv": {Data: []byte(header)},
		"Duathlon_20230501_Open_processed.csv":          {Data: []byte(header + "1,1,Eve,NZL,,,,,,,\n")},
		"Relay_20240230_Open_processed.csv":             {Data: []byte(header)},
		"Bad_processed.csv":                             {Data: []byte(header)},
		"notes.txt":                                     {Data: []byte("ignored")},
	}
}

func ptr(v float64) *float64 { return &v }

func TestParseFileName(t *testing.T) {
	Convey("Given results file names", t, func() {
		Convey("A conventional name splits into event, date and category", func() {
			key, ok := ParseFileName("Dataset/Sprint_Tri_20240615_Age_Group_processed.csv")
			So(ok, ShouldBeTrue)
			So(key.Event, ShouldEqual, "Sprint_Tri")
			So(key.Category, ShouldEqual, "Age_Group")
			So(key.Date.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(key.Label(), ShouldEqual, "Sprint_Tri (2024-06-15)")
		})

		Convey("Double processed files, bad dates and stray names are rejected", func() {
			for _, name := range []string{
				"Sprint_20240615_Elite_processed_processed.csv",
				"Sprint_20240230_Elite_processed.csv",
				"Sprint_Elite_processed.csv",
				"Sprint_20240615_Elite.csv",
			} {
				_, ok := ParseFileName(name)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestParseResults(t *testing.T) {
	Convey("Given a results table with a BOM and reordered columns", t, func() {
		in := "\ufeffName,Pos,Run_seconds,Swim_seconds\nAna,1.0,1200,\nBo,DSQ,abc,600.5\n"

		rows, err := ParseResults(strings.NewReader(in), "Elite")

		Convey("Then columns are matched by header and bad values are missing", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[0].Name, ShouldEqual, "Ana")
			So(rows[0].Pos, ShouldEqual, 1)
			So(rows[0].Category, ShouldEqual, "Elite")
			So(*rows[0].RunSeconds, ShouldEqual, 1200.0)
			So(rows[0].SwimSeconds, ShouldBeNil)
			So(rows[1].Ranked(), ShouldBeFalse)
			So(rows[1].RunSeconds, ShouldBeNil)
			So(*rows[1].SwimSeconds, ShouldEqual, 600.5)
		})
	})

	Convey("Given a broken CSV", t, func() {
		_, err := ParseResults(strings.NewReader("Name,Pos\n\"Ana,1\n"), "Elite")
		So(errors.Is(err, ErrMalformedResults), ShouldBeTrue)
	})
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given a dataset directory", t, func() {
		fsys := dataset()
		cat, err := NewCatalog(ctx, fsys)
		So(err, ShouldBeNil)

		Convey("Then events are listed newest label first with sorted categories", func() {
			events := cat.Events()
			So(len(events), ShouldEqual, 2)
			So(events[0].Label, ShouldEqual, "Sprint (2024-06-15)")
			So(events[0].Date, ShouldEqual, "2024-06-15")
			So(events[0].Categories, ShouldResemble, []string{"AgeGroup", "Elite"})
			So(events[1].Label, ShouldEqual, "Duathlon (2023-05-01)")
		})

		Convey("Then unknown labels report ErrEventNotFound", func() {
			_, err := cat.Event("Nope (2024-01-01)")
			So(errors.Is(err, ErrEventNotFound), ShouldBeTrue)
		})

		Convey("When a reload hits a malformed file", func() {
			fsys["Late_20240701_Open_processed.csv"] = &fstest.MapFile{Data: []byte("Name,Pos\n\"x,1\n")}
			err := cat.Reload(ctx)

			Convey("Then the error names the file and the old contents remain", func() {
				So(errors.Is(err, ErrMalformedResults), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Late_20240701_Open_processed.csv")
				So(cat.Len(), ShouldEqual, 2)
			})
		})

		Convey("When a new file appears and the catalog reloads", func() {
			fsys["Late_20240701_Open_processed.csv"] = &fstest.MapFile{Data: []byte(header)}
			So(cat.Reload(ctx), ShouldBeNil)
			So(cat.Len(), ShouldEqual, 3)
		})
	})
}

func TestCombineAndSummarize(t *testing.T) {
	Convey("Given an event with two categories", t, func() {
		cat, err := NewCatalog(context.Background(), dataset())
		So(err, ShouldBeNil)
		ev, err := cat.Event("Sprint (2024-06-15)")
		So(err, ShouldBeNil)

		Convey("Combine keeps selection order and per-table row order", func() {
			rows, ok := ev.Combine("Elite", "AgeGroup")
			So(ok, ShouldBeTrue)
			So(len(rows), ShouldEqual, 5)
			names := make([]string, 0, len(rows))
			for _, r := range rows {
				names = append(names, r.Name)
			}
			So(names, ShouldResemble, []string{"Ana Silva", "Beth Jones", "Carl Diaz", "Dan Wu", "Ana Silvano"})
			So(rows[3].Category, ShouldEqual, "AgeGroup")
		})

		Convey("An empty or unknown selection is nothing to aggregate", func() {
			_, ok := ev.Combine()
			So(ok, ShouldBeFalse)
			_, ok = ev.Combine("Masters")
			So(ok, ShouldBeFalse)
		})

		Convey("Summaries skip missing values", func() {
			rows, _ := ev.Combine("Elite", "AgeGroup")
			s := Summarize(rows)
			So(s.Participants, ShouldEqual, 5)
			So(s.Swim.Count, ShouldEqual, 5)
			So(*s.Swim.Mean, ShouldAlmostEqual, 696.0, 1e-9)
			So(*s.Swim.Median, ShouldEqual, 700.0)
			So(s.Run.Count, ShouldEqual, 4)
			So(*s.Run.Mean, ShouldAlmostEqual, 1290.0, 1e-9)
			So(*s.Run.Median, ShouldAlmostEqual, 1280.0, 1e-9)
			So(*s.T1.Mean, ShouldAlmostEqual, 75.0, 1e-9)
		})

		Convey("A column with no values has no statistics", func() {
			s := Summarize([]Result{{Name: "x"}})
			So(s.Run.Mean, ShouldBeNil)
			So(s.Run.Median, ShouldBeNil)
		})
	})
}

func TestProject(t *testing.T) {
	Convey("Given combined rows from two categories", t, func() {
		cat, _ := NewCatalog(context.Background(), dataset())
		ev, _ := cat.Event("Sprint (2024-06-15)")
		rows, _ := ev.Combine("Elite", "AgeGroup")

		Convey("When projected with a padded, mixed-case filter", func() {
			p := Project(rows, "  ANA silva ", Mean)

			Convey("Then highlight beats podium and podium is keyed on each row's Pos", func() {
				got := make([]Priority, 0, len(p.Points))
				for _, pt := range p.Points {
					got = append(got, pt.Priority)
				}
				So(got, ShouldResemble, []Priority{
					PriorityHighlight, PrioritySilver, PriorityDefault, PriorityGold, PriorityBronze,
				})
				So(p.Points[0].Style, ShouldResemble, Style{Color: "#FF0000", Size: 15, Symbol: "star"})
				So(p.Points[3].Style.Color, ShouldEqual, "#FFD700")
				So(p.Points[2].Style, ShouldResemble, Style{Color: "#1f77b4", Size: 8, Symbol: "circle"})
				So(p.Points[2].Y, ShouldBeNil)
				So(*p.Points[0].X, ShouldEqual, 600.0)
			})

			Convey("Then reference lines sit on the mean splits", func() {
				So(p.Lines[0].Orientation, ShouldEqual, Horizontal)
				So(p.Lines[0].Label, ShouldEqual, "Avg Run: 1290s (00:21:30)")
				So(p.Lines[1].Orientation, ShouldEqual, Vertical)
				So(p.Lines[1].Label, ShouldEqual, "Avg Swim: 696s (00:11:36)")
			})

			Convey("Then hover text describes the participant", func() {
				So(p.Points[0].Hover, ShouldResemble, []string{
					"Ana Silva",
					"Category: Elite",
					"Position: 1",
					"Swim: 00:10:00 (600s)",
					"T1: 00:01:00 (60s)",
					"Run: 00:20:00 (1200s)",
					"Total: 00:31:00",
				})
				So(p.Points[2].Hover[2], ShouldEqual, "Position: N/A")
			})
		})

		Convey("When projected with the median and no filter", func() {
			p := Project(rows, "   ", Median)
			So(p.Points[0].Priority, ShouldEqual, PriorityGold)
			So(p.Lines[0].Label, ShouldEqual, "Median Run: 1280s (00:21:20)")
			So(*p.Lines[1].Value, ShouldEqual, 700.0)
		})

		Convey("A partial name is not highlighted on the plot", func() {
			p := Project(rows, "ana", Mean)
			So(p.Points[0].Priority, ShouldEqual, PriorityGold)
		})
	})

	Convey("Given no rows", t, func() {
		p := Project(nil, "", Mean)
		So(p.Points, ShouldBeEmpty)
		So(p.Lines[0].Value, ShouldBeNil)
		So(p.Lines[0].Label, ShouldEqual, "Avg Run: N/A (N/A)")
	})
}

func TestStandings(t *testing.T) {
	Convey("Given combined rows and a partial name filter", t, func() {
		cat, _ := NewCatalog(context.Background(), dataset())
		ev, _ := cat.Event("Sprint (2024-06-15)")
		rows, _ := ev.Combine("Elite", "AgeGroup")

		table := Standings(rows, " ana silva")

		Convey("Then rows are ordered by position with unranked last", func() {
			names := make([]string, 0, len(table))
			for _, s := range table {
				names = append(names, s.Name)
			}
			So(names, ShouldResemble, []string{"Ana Silva", "Dan Wu", "Beth Jones", "Ana Silvano", "Carl Diaz"})
		})

		Convey("Then substring matches are highlighted", func() {
			So(table[0].Highlighted, ShouldBeTrue)
			So(table[3].Highlighted, ShouldBeTrue)
			So(table[1].Highlighted, ShouldBeFalse)
			So(table[0].SwimClock, ShouldEqual, "00:10:00")
			So(table[4].RunClock, ShouldEqual, "N/A")
		})
	})
}

func TestStatisticAndClock(t *testing.T) {
	Convey("ParseStatistic accepts mean and median", t, func() {
		s, err := ParseStatistic("Median")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, Median)
		s, err = ParseStatistic("")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, Mean)
		_, err = ParseStatistic("mode")
		So(errors.Is(err, ErrUnknownStatistic), ShouldBeTrue)
	})

	Convey("FormatClock truncates to whole seconds", t, func() {
		So(FormatClock(ptr(3725.9)), ShouldEqual, "01:02:05")
		So(FormatClock(ptr(0)), ShouldEqual, "00:00:00")
		So(FormatClock(nil), ShouldEqual, "N/A")
	})

	Convey("FormatClock floors negative splits into the previous hour", t, func() {
		So(FormatClock(ptr(-30)), ShouldEqual, "-1:59:30")
		So(FormatClock(ptr(-3600)), ShouldEqual, "-1:00:00")
	})
}
