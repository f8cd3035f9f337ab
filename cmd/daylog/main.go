// daylog is the household activity logger client: submissions, time edits,
// and deletions against today's log, synchronized through a syncd instance
// with a local mirror fallback.
package main

func main() {
	Execute()
}
