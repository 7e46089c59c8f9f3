/*
Package operation drives a rewrite run from confirmation to summary.

	+-------------+
	|   Runner    |
	| (run state) |
	+------+------+
	       |
	+------+------+
	|   Rewrite   |
	|  (per file) |
	+------+------+

🎯 Purpose:
- Gates commit runs behind a confirmation
- Discovers candidate files under the root
- Rewrites every file with the same rule set
- Hands results to the status reporter

🔄 States:

	idle ─▶ confirming ─▶ discovering ─▶ processing ─▶ reporting ─▶ done
	           │                                                     ▲
	           └──────────────── declined ──────────────────────────┘

Preview runs skip the confirmation. A declined confirmation ends the run with
a cancelled summary before any file is read.

⚡ Concurrency:
With Parallelism above one, files are processed by a bounded errgroup. Every
file writes its own result slot and the summary is folded afterwards in
discovery order, so the output does not depend on scheduling.

🔍 Example:

	runner, err := operation.New(operation.Options{
		Config:   cfg,
		Rules:    rule.ThemeRules(),
		Reporter: status.NewReporter(logger, cfg),
		Confirm:  confirm,
	})
	if err != nil {
		return err
	}
	summary, err := runner.Run(ctx)
*/
package operation
