//go:build integration

package integration_test

import (
	"log"
	"os"
	"os/exec"
	"testing"
)

const binary = "storefront"

var validConfig string

func init() {
	dat, err := os.ReadFile("../config.yaml")
	if err != nil {
		panic(err)
	}
	validConfig = string(dat)
}

func buildAndRunTests(m *testing.M) int {
	cmd := exec.Command("go", "build", "-buildvcs=false", "-race", "-cover", "-o", binary, "../cmd/"+binary)
	if output, err := cmd.CombinedOutput(); err != nil {
		log.Printf("output: %s", output)
		log.Fatalf("error: %v", err)
	}
	defer os.Remove(binary)

	return m.Run()
}

func TestMain(m *testing.M) {
	os.Exit(buildAndRunTests(m))
}
