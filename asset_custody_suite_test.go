package main_test

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAssetCustody(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AssetCustody Suite")
}

var _ = Describe("Repository layout", func() {
	It("ships the files the server and migrate commands read by default", func() {
		for _, path := range []string{"api/openapi.yml", "db/migrations/00001_init.sql", "config.example.yml"} {
			_, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred(), path)
		}
	})
})
