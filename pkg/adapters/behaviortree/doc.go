// Package behaviortree runs tick-driven go-behaviortree nodes as beetflow
// leaves.
//
// A Leaf holds a bt.Node. While the leaf is running, the Plugin's system
// ticks the node once per app update: Success passes, Failure or a tick
// error fails, and Running keeps the leaf running. Interrupting the leaf
// simply stops the polling.
package behaviortree
