/*
Package expertsystem is a rule-based decision engine that walks a user through a tree of yes/no (or integer) questions until it reaches an answer.

A configuration describes one "expert system": a name, a set of question and answer nodes, and predicated connections between them. The first question is the root. Every submitted integer is matched against the predicates of the current question in insertion order and the first accepting edge wins.

# Concept

The engine is a small state machine with two states, Active and Finished. By default the Finished state is entered the first time the text of an answer is read through CurrentData, and every later read returns "" until Reset. WithFinishOnTransition switches to entering Finished as soon as SetAnswer lands on an answer.

Configurations are read through a ports.Loader. New picks a loader by extension (.xml, .yaml, .yml, .json); WithLoader injects any other source.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/AndreyBuyanov/ExpertSystem"
	)

	func main() {
		eng, err := expertsystem.Open(context.Background(), "examples/systems/headache.xml")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println("~~~", eng.Name(), "~~~")
		for !eng.IsFinished() {
			text := eng.CurrentData()
			if eng.IsFinished() {
				fmt.Println("Result:", text)
				break
			}
			fmt.Println(text)

			var value int
			if _, err := fmt.Scan(&value); err != nil {
				log.Fatal(err)
			}
			if !eng.SetAnswer(value) {
				fmt.Println("answer not accepted")
			}
		}
	}

Serving many users at once is the job of pkg/session, which keeps one engine per session and persists its State through a ports.StateStore.
*/
package expertsystem
