/*
Package status tracks and reports the outcome of a rewrite run.

	            +-------------+
	            |   Summary   |
	            |   (fold)    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           | Reporter |
	| (Manager) |           | (UI/UX)  |
	+-----------+           +----------+

🎯 Purpose:
- Defines the per-file outcome (FileResult) and the run Summary
- Provides the FileManager abstraction over the file system
- Renders headers, per-file lines, diffs and the summary table

🔄 Flow:
1. The rewriter reads and writes through a FileManager
2. Each file yields a FileResult
3. The reporter prints the result as it arrives
4. Results are folded into a Summary in discovery order
5. The reporter prints the summary table

⚡ Writes:
OSFileManager writes through a temp file in the target directory and renames
it over the original, so a reader never sees a half written file. The file
mode of the original is kept.

🔍 Example:

	reporter := status.NewReporter(logger, cfg)
	reporter.Start(ctx, rules)
	for _, res := range results {
		reporter.ReportFile(ctx, res)
	}
	err := reporter.Finish(ctx, status.Fold(results))
*/
package status
