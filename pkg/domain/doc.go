/*
Package domain contains the core domain model of the expert system engine.

It defines the decision tree primitives (question and answer nodes connected by
predicated edges), the records a configuration loader produces, the session
snapshot used for persistence, and the errors shared by every layer. The package
is free of I/O.

# Key Entities

  - Node: a Question (with outgoing edges) or an Answer (terminal).
  - Predicate: a pure test over the submitted integer answer.
  - Definition: the name, questions, answers and connections of one configuration.
  - State: a serialisable snapshot of a session cursor.
*/
package domain
