package main_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestVTWallet(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VTWallet Suite")
}
