// Package analysis aggregates runner results into per-file and per-node-type views.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/mdtree/pkg/runner"
	"github.com/yaklabco/mdtree/pkg/tree"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	nodeMap   map[string]*NodeAnalysis
	nodeFiles map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		nodeMap:   make(map[string]*NodeAnalysis),
		nodeFiles: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) getOrCreateNodeAnalysis(name string) *NodeAnalysis {
	if _, ok := ctx.nodeMap[name]; !ok {
		ctx.nodeMap[name] = &NodeAnalysis{Name: name}
		ctx.nodeFiles[name] = make(map[string]bool)
	}
	return ctx.nodeMap[name]
}

// walkTree counts the named nodes of t by type and returns the total and
// the maximum nesting depth, the root being depth 1.
func (ctx *analysisContext) walkTree(path string, t *tree.Tree) (nodes, maxDepth int) {
	depth := 0
	_ = tree.WalkWithLeave(t.TopNode(),
		func(n *tree.Node) error {
			depth++
			maxDepth = max(maxDepth, depth)
			nodes++
			na := ctx.getOrCreateNodeAnalysis(n.Name())
			na.Count++
			ctx.nodeFiles[n.Name()][path] = true
			return nil
		},
		func(*tree.Node) error {
			depth--
			return nil
		},
	)
	return nodes, maxDepth
}

func (ctx *analysisContext) buildByNode(opts Options) []NodeAnalysis {
	result := make([]NodeAnalysis, 0, len(ctx.nodeMap))
	for name, na := range ctx.nodeMap {
		for f := range ctx.nodeFiles[name] {
			na.Files = append(na.Files, f)
		}
		slices.Sort(na.Files)
		result = append(result, *na)
	}
	sortNodeAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It walks each parsed tree once to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()
	var byFile []FileAnalysis

	for _, file := range result.Files {
		report.Totals.Files++
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := FileAnalysis{Path: displayPath}

		switch {
		case file.Error != nil:
			report.Totals.FilesErrored++
			fa.Error = file.Error.Error()
		case file.Result != nil:
			res := file.Result
			fa.Bytes = res.Bytes
			report.Totals.Bytes += res.Bytes
			report.Totals.ParseTime += res.Duration
			if res.Tree != nil {
				fa.Nodes, fa.Depth = ctx.walkTree(displayPath, res.Tree)
			} else {
				fa.Nodes = res.Nodes
			}
			report.Totals.Nodes += fa.Nodes
			report.Totals.MaxDepth = max(report.Totals.MaxDepth, fa.Depth)

			if res.Report != nil && !res.Report.OK() {
				report.Totals.FilesMismatched++
				fa.Mismatches = len(res.Report.Mismatches)
				report.Totals.Mismatches += fa.Mismatches
				if opts.IncludeMismatches {
					for _, m := range res.Report.Mismatches {
						report.Mismatches = append(report.Mismatches, MismatchEntry{
							FilePath: displayPath,
							Block:    m.Index + 1,
							Message:  m.Message,
						})
					}
				}
			}
		default:
			continue
		}

		byFile = append(byFile, fa)
	}

	if opts.IncludeByNode {
		report.ByNode = ctx.buildByNode(opts)
	}
	if opts.IncludeByFile {
		sortFileAnalysis(byFile, opts.SortBy, opts.SortDesc)
		report.ByFile = byFile
	}

	return report
}

func sortNodeAnalysis(nodes []NodeAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(nodes, func(left, right NodeAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Name, right.Name)
		case SortBySize:
			result = cmp.Compare(len(left.Files), len(right.Files))
		default: // SortByCount
			result = cmp.Compare(left.Count, right.Count)
		}
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Name, right.Name)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(left.Path, right.Path)
		case SortBySize:
			result = cmp.Compare(left.Bytes, right.Bytes)
		default: // SortByCount
			result = cmp.Compare(left.Nodes, right.Nodes)
		}
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
