package api

import (
	"testing"

	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestController(t *testing.T) {
	logger.InitLogger()
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}
