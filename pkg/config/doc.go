/*
Package config holds the run configuration and the rule file formats of rewriterc.

	            +-------------+
	            |  RunConfig  |
	            |  (per run)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Defines the run mode (preview or commit) and the discovery settings
- Loads optional rule files and turns them into a rule.RuleSet
- Keeps defaults (root, extensions, exclusions) in one place

🔄 Flow:
1. Start from Default()
2. Overlay a loaded File with File.Apply
3. Overlay command line flags
4. Validate and hand the value to the runner

📝 Rule files:

	path: frontend/src
	extensions: [.jsx, .tsx]
	exclude: [node_modules, dist]
	exclude_globs: ["legacy/**"]
	preset: theme
	rules:
	  - token: bg-red-600
	    replace: bg-danger
	    description: Danger background
	  - lookup:
	      text-red-500: text-danger
	      text-red-700: text-danger-strong

The same file in HCL uses one rule block per rule and may reference
default_root, default_extensions and default_exclude.
*/
package config
