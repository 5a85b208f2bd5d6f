/*
Package domain contains the core types of the beetflow control-flow runtime.

It defines the events exchanged between actions, the outcome of a finished
action, the records handed to lifecycle hooks and trace stores, and the
declarative tree definitions. The package holds no behavior beyond small
helpers and depends only on the entity types of package ecs.

# Key Types

  - Run: asks an action to start. Pushed from parents to children.
  - End: reports that an action finished with an Outcome.
  - ChildEnd: the End of a child, delivered one hop up to its parent.
  - Interrupted: tells a running action it was stopped by an ancestor.
  - RequestScore / ChildScore: the utility-selection exchange of ScoreFlow.
  - TreeDef: a declarative tree, loaded from YAML or JSON.
*/
package domain
