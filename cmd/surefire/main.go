/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Command surefire is the thin CLI dispatcher in front of the core
toolchain: "sv check/autocode" and "sm check/autocode/test", each a
noun/verb pair built with github.com/teris-io/cli. Every subcommand here
only tokenizes/parses/compiles via the token/sv/sm packages and reports
the result - none of the toolchain logic lives in this file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/krotik/common/fileutil"
	"github.com/teris-io/cli"

	"github.com/stefandebruyn/surefire-sub002/autocode"
	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/script"
	"github.com/stefandebruyn/surefire-sub002/sm"
	"github.com/stefandebruyn/surefire-sub002/sv"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
ProductVersion is reported by "surefire -help".
*/
const ProductVersion = "0.1.0"

func readFile(path string) (string, bool) {
	if exists, _ := fileutil.PathExists(path); !exists {
		fmt.Printf("ERROR: %v\n", errs.New(errs.ErrFileOpen, 0, 0, "no such file: "+path))
		return "", false
	}
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("ERROR: %v\n", errs.New(errs.ErrFileOpen, 0, 0, path+": "+err.Error()))
		return "", false
	}
	return string(b), true
}

func writeFile(path, content string) bool {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		fmt.Printf("ERROR: cannot write %s: %v\n", path, err)
		return false
	}
	return true
}

func compileVector(path string, regions []string) (*sv.Assembly, bool) {
	src, ok := readFile(path)
	if !ok {
		return nil, false
	}
	toks, err := token.Tokenize(src)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, false
	}
	parse, err := sv.Parse(toks, regions)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, false
	}
	asm, err := sv.Compile(parse)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, false
	}
	return asm, true
}

func compileMachine(svPath, smPath string) (*sm.StateMachine, bool) {
	vec, ok := compileVector(svPath, nil)
	if !ok {
		return nil, false
	}
	src, ok := readFile(smPath)
	if !ok {
		return nil, false
	}
	toks, err := token.Tokenize(src)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, false
	}
	parse, err := sm.Parse(toks)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, false
	}
	m, err := sm.Compile(parse, vec, sm.Config{})
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return nil, false
	}
	return m, true
}

func svCheck(args []string, options map[string]string) int {
	if _, ok := compileVector(args[0], nil); !ok {
		return 1
	}
	fmt.Println("OK")
	return 0
}

func svAutocode(args []string, options map[string]string) int {
	asm, ok := compileVector(args[0], args[3:])
	if !ok {
		return 1
	}
	out := fmt.Sprintf("// autocode: %s (from %s)\n\n%s", args[2], args[0], autocode.DescribeStateVector(asm))
	if !writeFile(args[1], out) {
		return 1
	}
	fmt.Printf("wrote %s\n", args[1])
	return 0
}

func smCheck(args []string, options map[string]string) int {
	if _, ok := compileMachine(args[0], args[1]); !ok {
		return 1
	}
	fmt.Println("OK")
	return 0
}

func smAutocode(args []string, options map[string]string) int {
	m, ok := compileMachine(args[0], args[1])
	if !ok {
		return 1
	}
	out := fmt.Sprintf("// autocode: %s (from %s, %s)\n\n%s", args[3], args[0], args[1], autocode.DescribeStateMachine(m))
	if !writeFile(args[2], out) {
		return 1
	}
	fmt.Printf("wrote %s\n", args[2])
	return 0
}

func smTest(args []string, options map[string]string) int {
	m, ok := compileMachine(args[0], args[1])
	if !ok {
		return 1
	}
	src, ok := readFile(args[2])
	if !ok {
		return 1
	}
	result, err := script.Run(m, src)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}
	fmt.Print(result.Report())
	if !result.Passed() {
		return 1
	}
	return 0
}

func main() {
	app := cli.New("Surefire - avionics-style state vector and state machine configuration toolchain ("+ProductVersion+")").
		WithCommand(cli.NewCommand("sv", "Inspect and compile state-vector configs").
			WithCommand(cli.NewCommand("check", "Validate a state-vector config").
				WithArg(cli.NewArg("config", "Path to the state-vector config file")).
				WithAction(svCheck)).
			WithCommand(cli.NewCommand("autocode", "Emit a language-agnostic description of a compiled state vector").
				WithArg(cli.NewArg("config", "Path to the state-vector config file")).
				WithArg(cli.NewArg("out", "Path to write the autocode output to")).
				WithArg(cli.NewArg("name", "Name to stamp into the autocode header")).
				WithArg(cli.NewArg("regions", "Optional region whitelist").AsOptional()).
				WithAction(svAutocode))).
		WithCommand(cli.NewCommand("sm", "Inspect, compile, and test state-machine configs").
			WithCommand(cli.NewCommand("check", "Validate a state-vector and state-machine config pair").
				WithArg(cli.NewArg("sv_config", "Path to the state-vector config file")).
				WithArg(cli.NewArg("sm_config", "Path to the state-machine config file")).
				WithAction(smCheck)).
			WithCommand(cli.NewCommand("autocode", "Emit a language-agnostic description of a compiled state machine").
				WithArg(cli.NewArg("sv_config", "Path to the state-vector config file")).
				WithArg(cli.NewArg("sm_config", "Path to the state-machine config file")).
				WithArg(cli.NewArg("out", "Path to write the autocode output to")).
				WithArg(cli.NewArg("name", "Name to stamp into the autocode header")).
				WithAction(smAutocode)).
			WithCommand(cli.NewCommand("test", "Drive a compiled state machine through a state script").
				WithArg(cli.NewArg("sv_config", "Path to the state-vector config file")).
				WithArg(cli.NewArg("sm_config", "Path to the state-machine config file")).
				WithArg(cli.NewArg("script_config", "Path to the state-script config file")).
				WithAction(smTest)))

	os.Exit(app.Run(os.Args, os.Stdout))
}
