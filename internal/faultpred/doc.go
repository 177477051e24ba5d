// Package faultpred supplies the fault-probability ranking consumed by the
// prioritization engine.
//
// A Provider produces, once per run, a ranked list of fault units: source
// file paths paired with a defect probability. The production adapter
// shells out to the schwa analysis tool and parses its JSON output; the
// Static provider returns canned rankings for deterministic tests.
//
// The engine consumes the ranking in the order the provider returns it,
// most relevant first. Which probability end counts as most relevant is a
// configuration choice (Direction); the adapter sorts accordingly before
// returning.
//
// A tool run that fails or produces unreadable output is reported as a
// *ToolError so callers can degrade to an empty ranking instead of
// aborting; configuration problems (tool not installed, project root
// unset) are caught up front by the prerequisite checks and are fatal.
package faultpred
