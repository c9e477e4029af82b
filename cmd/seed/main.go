// Command seed loads invoice extraction exports into the spend database.
package main

func main() {
	Execute()
}
