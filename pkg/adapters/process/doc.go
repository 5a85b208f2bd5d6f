// Package process runs local commands as behavior tree leaves.
//
// Commands are allow-listed by name, usually from a tools.yaml file:
//
//	tools:
//	  - name: lint
//	    command: golangci-lint
//	    args: [run, ./...]
//
// A "process" node names the tool. Its run payload and env params reach the
// command as BEETFLOW_ARG_* environment variables, and save_to stores the
// output on the blackboard.
package process
