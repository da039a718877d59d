// Package verify turns notebook executions into Go test results.
//
// A Suite is collected once, before any notebook runs, and registers one
// subtest per runnable notebook so that a failure names the notebook that
// caused it:
//
//	var suite = verify.Collect(verify.Options{Root: "notebooks"})
//
//	func TestNotebookExecution(t *testing.T) { suite.Run(t) }
//
//	func TestNotebooksExist(t *testing.T) { verify.RequireNotebooks(t, "notebooks") }
package verify
