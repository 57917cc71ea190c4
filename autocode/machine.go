/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package autocode

import (
	"fmt"

	"github.com/krotik/common/stringutil"

	"github.com/stefandebruyn/surefire-sub002/sm"
)

/*
countBlock walks a compiled state's parse chain, counting assignments and
transitions and collecting every transition's destination name. It
recurses into if/else branches, since a guarded block's actions
are still actions the state can take.
*/
func countBlock(bp *sm.BlockParse, assigns *int, transitions *[]string) {
	if bp == nil {
		return
	}
	if bp.Assign != nil {
		*assigns++
	}
	if bp.Trans != nil {
		*transitions = append(*transitions, bp.Trans.DestTok.Lexeme)
	}
	countBlock(bp.If, assigns, transitions)
	countBlock(bp.Else, assigns, transitions)
	countBlock(bp.Next, assigns, transitions)
}

/*
DescribeStateMachine renders a state table (name, entry/step/exit action
counts) and a transition table (source state, destination state, which
label the transition fires from) for m's parse tree. It returns an
explanatory placeholder instead of a table if m was compiled with
Config.Rake, since the parse tree autocode reads from is discarded in
that mode.
*/
func DescribeStateMachine(m *sm.StateMachine) string {
	parse := m.Parse()
	if parse == nil {
		return "state machine was compiled with Rake=true; no parse tree is retained to describe\n"
	}

	stateData := []string{"State", "Entry actions", "Step actions", "Exit actions"}
	transData := []string{"From", "Label", "To"}

	for _, sp := range parse.States {
		var entryAssigns, stepAssigns, exitAssigns int
		var entryTrans, stepTrans, exitTrans []string

		countBlock(sp.Entry, &entryAssigns, &entryTrans)
		countBlock(sp.Step, &stepAssigns, &stepTrans)
		countBlock(sp.Exit, &exitAssigns, &exitTrans)

		stateData = append(stateData, sp.Name,
			fmt.Sprintf("%d", entryAssigns), fmt.Sprintf("%d", stepAssigns), fmt.Sprintf("%d", exitAssigns))

		labeled := []struct {
			label string
			dests []string
		}{{"entry", entryTrans}, {"step", stepTrans}, {"exit", exitTrans}}
		for _, lt := range labeled {
			for _, d := range lt.dests {
				transData = append(transData, sp.Name, lt.label, d)
			}
		}
	}

	out := stringutil.PrintGraphicStringTable(stateData, 4, 1, stringutil.SingleDoubleLineTable)
	if len(transData) > 3 {
		out += stringutil.PrintGraphicStringTable(transData, 3, 1, stringutil.SingleDoubleLineTable)
	}
	return out
}
