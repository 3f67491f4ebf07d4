// Package graph builds and analyzes the job dependency graph.
//
// Jobs are linked only by matching condition names: a job that lists a
// condition as "out" produces it, a job that lists it as "in" consumes it.
// The Index maps each normalized condition name to its producers and
// consumers; Build resolves those matches into directed producer→consumer
// edges with bidirectional adjacency.
//
// Cycles are a normal structural property of legacy scheduler configuration,
// not an error. SCCs finds them with an iterative Tarjan pass (an explicit
// stack - recursion would overflow on chains tens of thousands of jobs deep),
// and Depths collapses SCCs into a condensation DAG so every job, cyclic or
// not, gets a finite dependency depth.
//
// Everything here is deterministic: adjacency is built in JobID order, SCC
// traversal iterates roots in JobID order, and no map iteration order ever
// reaches an output.
package graph
