// Package report renders analysis results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"scenic-score/internal/fileio"
	"scenic-score/internal/scores/model"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteText prints the ranking the way the analysts read it.
func WriteText(w io.Writer, rep *model.Report) error {
	b := &strings.Builder{}
	fmt.Fprintf(b, "评分列: %s", rep.ScoreColumn)
	if !rep.Resolved {
		b.WriteString(" (默认)")
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "文件数: %d\n", rep.Files)
	fmt.Fprintf(b, "全国最高评分(BS)为: %s\n", num(rep.GlobalMax))
	fmt.Fprintf(b, "全国共有 %d 个景点获得最高评分(BS): %s\n", rep.TotalCount, num(rep.GlobalMax))

	fmt.Fprintf(b, "\n获得最高评分景点数量最多的前%d个城市:\n", len(rep.Ranking))
	if len(rep.Ranking) == 0 {
		b.WriteString("  (无)\n")
	}
	for i, c := range rep.Ranking {
		fmt.Fprintf(b, "%d. %s: %d个最高评分景点\n", i+1, c.City, c.Count)
	}

	if len(rep.ProblemFiles) > 0 {
		fmt.Fprintf(b, "\n发现 %d 个有问题的文件:\n", len(rep.ProblemFiles))
		for _, f := range rep.ProblemFiles {
			fmt.Fprintf(b, "  %s\n", f)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteProbe prints one diagnostic probe.
func WriteProbe(w io.Writer, res *fileio.ProbeResult) error {
	b := &strings.Builder{}
	fmt.Fprintf(b, "\n正在分析问题文件: %s\n", res.File)
	fmt.Fprintf(b, "文件头字节 (十六进制, %d):\n%s\n", res.HeaderLen, res.HeaderHex)
	if d := res.Detected; d != nil {
		fmt.Fprintf(b, "检测到可能的编码: %s (confidence %d", d.Charset, d.Confidence)
		if d.Language != "" {
			fmt.Fprintf(b, ", language %s", d.Language)
		}
		b.WriteString(")\n")
	}
	for _, a := range res.Attempts {
		fmt.Fprintf(b, "\n[%s]\n", a.Encoding)
		if a.LinesError != "" {
			fmt.Fprintf(b, "  读取失败: %s\n", a.LinesError)
		}
		for _, l := range a.Lines {
			fmt.Fprintf(b, "  %s\n", l)
		}
		if a.TableError != "" {
			fmt.Fprintf(b, "  作为CSV读取失败: %s\n", a.TableError)
		} else if a.Columns != nil {
			fmt.Fprintf(b, "  列名: %s\n", strings.Join(a.Columns, " | "))
		}
	}
	if res.Encoding != "" {
		fmt.Fprintf(b, "找到可能的编码方式: %s\n", res.Encoding)
	} else {
		b.WriteString("未找到可用的编码\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteProbeReport prints every probe and every file the probe could not open.
func WriteProbeReport(w io.Writer, rep *model.ProbeReport) error {
	for _, res := range rep.Results {
		if err := WriteProbe(w, res); err != nil {
			return err
		}
	}
	files := make([]string, 0, len(rep.Errors))
	for f := range rep.Errors {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		if _, err := fmt.Fprintf(w, "\n%s: %s\n", f, rep.Errors[f]); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints a FileSummary with the preview as an aligned table.
func WriteSummary(w io.Writer, s model.FileSummary) error {
	b := &strings.Builder{}
	fmt.Fprintf(b, "文件: %s\n", s.File)
	fmt.Fprintf(b, "编码: %s", s.Encoding)
	if s.Repaired {
		fmt.Fprintf(b, " (已修复 %d 处)", s.RepairedFields)
	}
	if len(s.Tried) > 1 {
		fmt.Fprintf(b, ", 尝试: %s", strings.Join(s.Tried, " -> "))
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "行数: %d, 列数: %d\n", s.Rows, len(s.Columns))
	b.WriteString("\n列名:\n")
	for i, c := range s.Columns {
		fmt.Fprintf(b, "%d. %q\n", i+1, c)
	}

	if s.ScoreColumn == "" {
		b.WriteString("\n未找到评分列\n")
	} else {
		fmt.Fprintf(b, "\n找到评分列: %s\n", s.ScoreColumn)
		if s.ScoreMax != nil {
			fmt.Fprintf(b, "最高评分: %s\n", num(*s.ScoreMax))
			fmt.Fprintf(b, "最低评分: %s\n", num(*s.ScoreMin))
			fmt.Fprintf(b, "平均评分: %.2f\n", *s.ScoreMean)
			parts := make([]string, len(s.Distribution))
			for i, vc := range s.Distribution {
				parts[i] = fmt.Sprintf("%s: %d", num(vc.Value), vc.Count)
			}
			fmt.Fprintf(b, "评分分布: {%s}\n", strings.Join(parts, ", "))
		}
	}

	b.WriteString("\n前3行数据:\n")
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(s.Columns, "\t"))
	for _, row := range s.Preview {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(b, "\n缺失值数量: %d\n", s.MissingCells)
	_, err := io.WriteString(w, b.String())
	return err
}
