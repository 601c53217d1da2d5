// Package workflow turns a perspective and a requested action into a
// sequential pipeline of stages. Each stage calls one external collaborator
// (crawler, study, report generator or document renderer) and exchanges data
// with the other stages only through the artifacts of the perspective's
// output root.
package workflow
