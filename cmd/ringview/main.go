// Command ringview builds and lays out fraud-ring graphs from claim records.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
