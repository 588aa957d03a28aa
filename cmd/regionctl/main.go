// Command regionctl replays, maps and stress-tests block-table region
// allocations.
package main

func main() {
	execute()
}
