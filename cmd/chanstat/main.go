// Command chanstat runs one computation over an xlsx workbook and writes
// the run report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"chanstat/adapters/excel"
	"chanstat/adapters/gonumdist"
	"chanstat/adapters/stats/engine"
	"chanstat/app"
	"chanstat/domain/stats"
)

func main() {
	var (
		input  = flag.String("in", "", "xlsx workbook with feature columns plus optional group/replicate/contrast columns")
		sheet  = flag.String("sheet", "Sheet1", "worksheet name")
		test   = flag.String("test", "t", "test kind: t, t2 or F")
		output = flag.String("output", "", "output kind: empty (raw), z, p, left, right or both")
		html   = flag.String("html", "", "optional path for an HTML report")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	service := app.NewAnalysisService(
		engine.NewEngine(gonumdist.New()),
		excel.NewReader(*sheet),
		nil,
	)

	res, err := service.Run(context.Background(), app.AnalysisRequest{
		SourceRef: *input,
		Test:      stats.TestKind(*test),
		Output:    stats.OutputKind(*output),
	})
	if err != nil {
		log.Fatalf("compute: %v", err)
	}

	fmt.Print(res.ReportMD)

	if *html != "" {
		if err := os.WriteFile(*html, service.RenderHTML(res.ReportMD), 0o644); err != nil {
			log.Fatalf("write html report: %v", err)
		}
	}
}
