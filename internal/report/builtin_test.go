package report_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/uncertainty/internal/report"
)

var _ = Describe("built-in reports", func() {
	var column *mat.Dense

	BeforeEach(func() {
		column = mat.NewDense(3, 1, []float64{1, 2, 3})
	})

	Describe("ConsoleReport", func() {
		It("summarizes each column", func() {
			out, err := report.NewConsoleReport(column).Render(nil)
			Expect(err).NotTo(HaveOccurred())

			text, ok := out.(string)
			Expect(ok).To(BeTrue())
			Expect(text).To(ContainSubstring("3 x 1"))
			Expect(text).To(ContainSubstring("MEAN"))
			Expect(text).To(ContainSubstring("2.0000"))
			Expect(text).To(ContainSubstring("3.0000"))
		})

		It("honours precision and title", func() {
			out, err := report.NewConsoleReport(column).Render(report.Options{"precision": 1, "title": "walk"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("walk"))
			Expect(out).To(ContainSubstring("2.0"))
			Expect(out).NotTo(ContainSubstring("2.0000"))
		})

		It("caps the number of columns", func() {
			wide := mat.NewDense(2, 4, []float64{1, 2, 3, 4, 5, 6, 7, 8})
			out, err := report.NewConsoleReport(wide).Render(report.Options{"columns": 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("2 more columns"))
		})

		It("rejects invalid options", func() {
			_, err := report.NewConsoleReport(column).Render(report.Options{"columns": 0})
			Expect(err).To(MatchError(report.ErrInvalidOption))
		})

		It("rejects a nil result", func() {
			_, err := report.NewConsoleReport(nil).Render(nil)
			Expect(err).To(MatchError(report.ErrEmptyResult))
		})
	})

	Describe("MarginReport", func() {
		It("computes a t interval around the column mean", func() {
			out, err := report.NewMarginReport(column).Render(nil)
			Expect(err).NotTo(HaveOccurred())

			table, ok := out.(*report.MarginTable)
			Expect(ok).To(BeTrue())
			Expect(table.Confidence).To(Equal(report.DefaultConfidence))
			Expect(table.Rows).To(HaveLen(1))

			row := table.Rows[0]
			Expect(row.N).To(Equal(3))
			Expect(row.Mean).To(BeNumerically("~", 2, 1e-12))
			Expect(row.StdDev).To(BeNumerically("~", 1, 1e-12))
			Expect(row.StdErr).To(BeNumerically("~", 1/math.Sqrt(3), 1e-12))
			// t(0.975, 2) = 4.302653
			Expect(row.Margin).To(BeNumerically("~", 4.302653/math.Sqrt(3), 1e-4))
			Expect(row.Lower).To(BeNumerically("~", row.Mean-row.Margin, 1e-12))
			Expect(row.Upper).To(BeNumerically("~", row.Mean+row.Margin, 1e-12))
		})

		It("narrows the interval at lower confidence", func() {
			wide, err := report.NewMarginReport(column).Render(report.Options{"confidence": 0.99})
			Expect(err).NotTo(HaveOccurred())
			narrow, err := report.NewMarginReport(column).Render(report.Options{"confidence": 0.8})
			Expect(err).NotTo(HaveOccurred())

			Expect(narrow.(*report.MarginTable).Rows[0].Margin).
				To(BeNumerically("<", wide.(*report.MarginTable).Rows[0].Margin))
		})

		It("reports NaN margins for a single sample", func() {
			out, err := report.NewMarginReport(mat.NewDense(1, 2, []float64{5, 6})).Render(nil)
			Expect(err).NotTo(HaveOccurred())

			rows := out.(*report.MarginTable).Rows
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].Mean).To(Equal(6.0))
			Expect(math.IsNaN(rows[1].Margin)).To(BeTrue())
		})

		It("rejects confidence outside (0, 1)", func() {
			for _, c := range []float64{0, 1, -0.5, 1.5} {
				_, err := report.NewMarginReport(column).Render(report.Options{"confidence": c})
				Expect(err).To(MatchError(report.ErrInvalidOption))
			}
		})

		It("formats as a table", func() {
			out, _ := report.NewMarginReport(column).Render(nil)
			Expect(out.(*report.MarginTable).String()).To(ContainSubstring("confidence: 95.0%"))
		})
	})

	Describe("PlotReport", func() {
		It("draws a single column as one series", func() {
			out, err := report.NewPlotReport(column).Render(report.Options{"caption": "dummy"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeAssignableToTypeOf(""))
			Expect(out).To(ContainSubstring("dummy"))
		})

		It("draws paths of a multi-column result", func() {
			paths := mat.NewDense(2, 4, []float64{0, 1, 2, 3, 0, -1, -2, -3})
			out, err := report.NewPlotReport(paths).Render(report.Options{"height": 5, "width": 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("2 paths x 4 steps"))
		})

		It("refuses to draw nothing", func() {
			paths := mat.NewDense(2, 2, []float64{0, 1, 2, 3})
			_, err := report.NewPlotReport(paths).Render(report.Options{"paths": 0, "mean": false})
			Expect(err).To(MatchError(report.ErrInvalidOption))
		})

		It("captions a single column by sample count", func() {
			out, err := report.NewPlotReport(column).Render(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("3 samples"))
			Expect(out).NotTo(ContainSubstring("steps"))
		})

		It("rejects infinite values", func() {
			blown := mat.NewDense(3, 1, []float64{1, math.Inf(1), 3})
			_, err := report.NewPlotReport(blown).Render(nil)
			Expect(err).To(MatchError(report.ErrNonFinite))
		})

		It("rejects an all-NaN result", func() {
			nan := math.NaN()
			empty := mat.NewDense(2, 2, []float64{nan, nan, nan, nan})
			_, err := report.NewPlotReport(empty).Render(nil)
			Expect(err).To(MatchError(report.ErrNonFinite))
		})
	})
})
