// Command fullbleed-demo exercises the rendering pipeline end to end:
// it builds a small canvas document, resolves it through a plan, emits
// a PDF in the requested compliance profile, and optionally prints
// PMR/WCAG/Section 508 audit coverage folded from a fixed pair of sample
// rule verdicts (not derived from the rendered document).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"fullbleed/internal/audit"
	"fullbleed/internal/canvas"
	"fullbleed/internal/fontreg"
	"fullbleed/internal/obs"
	"fullbleed/internal/pagedata"
	"fullbleed/internal/pdf"
	"fullbleed/internal/plan"
	"fullbleed/internal/units"
)

func main() {
	var (
		outputPath = flag.String("output", "./out/demo.pdf", "Output PDF path")
		profile    = flag.String("profile", "plain", "Compliance profile (plain, pdfa2b, pdfx4)")
		pages      = flag.Int("pages", 2, "Number of content pages to generate")
		workers    = flag.Int("workers", 2, "Page-paint worker count")
		auditJSON  = flag.Bool("audit", false, "Print a PMR/WCAG/Section508 coverage report instead of exiting quietly")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logLevel := "info"
	if *verbose {
		logLevel = "debug"
	}
	logger := obs.NewStructuredLogger(obs.Config{Level: logLevel, Format: "console", Output: "stderr"})

	opts, err := resolveOptions(*profile)
	if err != nil {
		log.Fatalf("fullbleed-demo: %v", err)
	}

	fonts := fontreg.NewBase14Registry()
	doc := buildContent(*pages, fonts)

	spec := pagedata.Spec{Ops: map[string]pagedata.Op{
		"section_total": {Kind: pagedata.OpSum, Scale: 2},
	}}
	docPlan := plan.BuildDocPlan("fullbleed-demo", doc, nil, nil, spec, fonts)

	ctx := context.Background()
	ops := plan.PaintPlanParallel(ctx, docPlan, *workers, logger)
	final := plan.OpsToDocument(docPlan.PageSize, ops)

	opts.Fonts = fonts
	opts.Logger = logger
	opts.ReuseXObjects = true
	out, err := pdf.Encode(final, opts)
	if err != nil {
		log.Fatalf("fullbleed-demo: encode failed: %v", err)
	}

	if err := os.MkdirAll(dirOf(*outputPath), 0755); err != nil {
		log.Fatalf("fullbleed-demo: could not create output directory: %v", err)
	}
	if err := os.WriteFile(*outputPath, out, 0644); err != nil {
		log.Fatalf("fullbleed-demo: could not write %s: %v", *outputPath, err)
	}
	logger.Info("rendered document", "path", *outputPath, "bytes", len(out), "pages", docPlan.PageCount)

	if *auditJSON {
		printAuditReport(*profile)
	}
}

func resolveOptions(profile string) (pdf.Options, error) {
	opts := pdf.DefaultOptions()
	switch profile {
	case "plain":
		opts.Profile = pdf.ProfilePlain
	case "pdfa2b":
		opts.Profile = pdf.ProfilePDFA2B
		opts.Version = pdf.Version17
	case "pdfx4":
		opts.Profile = pdf.ProfilePDFX4
		opts.Version = pdf.Version17
		opts.OutputIntent = &pdf.OutputIntent{
			Identifier:   "CGATS TR 001",
			Condition:    "Commercial and specialty printing",
			Info:         "U.S. Web Coated (SWOP) v2",
			RegistryName: "http://www.color.org",
			ICCProfile:   placeholderICCProfile(),
			NComponents:  4,
		}
	default:
		return pdf.Options{}, fmt.Errorf("unknown profile %q (want plain, pdfa2b, or pdfx4)", profile)
	}
	opts.Title = "fullbleed demo document"
	return opts, opts.Validate()
}

// placeholderICCProfile stands in for a real embedded ICC profile; a
// production caller supplies the bytes of an actual destination profile.
func placeholderICCProfile() []byte {
	return []byte("fullbleed-demo-placeholder-icc-profile")
}

func buildContent(pageCount int, fonts fontreg.Registry) canvas.Document {
	size := canvas.Size{Width: units.FromFloat(612), Height: units.FromFloat(792)}
	c := canvas.New(size)
	for i := 0; i < pageCount; i++ {
		c.SetFillColor(canvas.Color{R: 0.1, G: 0.1, B: 0.1})
		c.SetFontName(fontreg.Base14Name("sans-serif", 400, false))
		c.SetFontSize(units.FromFloat(18))
		c.DrawString(units.FromFloat(72), units.FromFloat(720), "fullbleed demo")

		c.Meta("section_total", "125.50")
		c.SetFillColor(canvas.Color{R: 0.85, G: 0.2, B: 0.2})
		c.DrawRect(units.FromFloat(72), units.FromFloat(600), units.FromFloat(200), units.FromFloat(80))

		if i < pageCount-1 {
			c.ShowPage()
		}
	}
	return c.Finish()
}

func printAuditReport(profileName string) {
	meta := audit.BuildMetadata()
	gateLevel, err := audit.PMREffectiveGateLevel(profileName, "pmr.layout.page_count_target")
	if err != nil {
		gateLevel = "unknown"
	}

	verdicts := []audit.RuleVerdict{
		{RuleID: "fb.a11y.html.title_present_nonempty", Verdict: audit.VerdictPass},
		{RuleID: "fb.a11y.images.alt_text_present", Verdict: audit.VerdictNotApplicable},
	}
	wcag := audit.Wcag20AACoverageFromRuleVerdicts(verdicts...)
	section508 := audit.Section508HTMLCoverageFromRuleVerdicts(verdicts...)

	report := struct {
		Contract            audit.Metadata                      `json:"contract"`
		PageCountTargetGate string                              `json:"page_count_target_gate_level"`
		Wcag20AA            audit.Wcag20AaCoverageSummary       `json:"wcag20aa_coverage"`
		Section508HTML      audit.Section508HtmlCoverageSummary `json:"section508_html_coverage"`
	}{
		Contract:            meta,
		PageCountTargetGate: gateLevel,
		Wcag20AA:            wcag,
		Section508HTML:      section508,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("fullbleed-demo: could not marshal audit report: %v", err)
	}
	fmt.Println(string(data))
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
