package conformance

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/RedHatInsights/connector-conformance/internal/conformance/framework"
	"github.com/RedHatInsights/connector-conformance/internal/platform/utils/tls_utils"

	"github.com/stretchr/testify/require"
)

type group struct {
	name string
	run  func(c *framework.Context, s *session)
}

type suite struct {
	name   string
	groups []group
}

// Suites run in this order for every binding.  The admin list expects an empty service, so it runs
// after every other suite has cleaned up.
var suites = []suite{
	definitionSuite,
	connectorSuite,
	foreignIdentitySuite,
	adminSuite,
}

// SuiteNames lists the top level suites, e.g. for a --run filter
func SuiteNames() []string {
	names := make([]string, 0, len(suites))
	for _, s := range suites {
		names = append(names, s.name)
	}
	return names
}

// Run executes every suite once per binding.  Scenario ids take the form binding/suite/group.
func Run(ctx context.Context, cfg Config, factories []BindingFactory, filter framework.Filter, testLogger framework.TestLogger) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		for _, factory := range factories {
			c.Run(factory.Name, func(c *framework.Context) {
				for _, s := range suites {
					c.Run(s.name, func(c *framework.Context) {
						for _, g := range s.groups {
							c.Run(g.name, withBinding(ctx, cfg, factory, g.run))
						}
					})
				}
			})
		}
	})
}

func withBinding(ctx context.Context, cfg Config, factory BindingFactory, run func(*framework.Context, *session)) func(*framework.Context) {
	return func(c *framework.Context) {
		binding, err := factory.Open()
		require.NoError(c, err, "opening the %s binding", factory.Name)
		defer binding.Close()

		run(c, newSession(ctx, cfg, binding))
	}
}

// NewBindingFactories builds a factory for every binding named in cfg
func NewBindingFactories(cfg Config) ([]BindingFactory, error) {
	tlsConfig, err := clientTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	admin := cfg.AdminIdentity()

	var factories []BindingFactory
	for _, name := range cfg.Bindings {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case RestBindingName:
			factories = append(factories, BindingFactory{
				Name: RestBindingName,
				Open: func() (Binding, error) {
					return NewRestBinding(cfg.PublicURL, cfg.PrivateURL, admin, tlsConfig, cfg.RequestTimeout), nil
				},
			})
		case GrpcBindingName:
			factories = append(factories, BindingFactory{
				Name: GrpcBindingName,
				Open: func() (Binding, error) {
					return DialGrpcBinding(cfg.GrpcTarget, admin, tlsConfig, cfg.RequestTimeout)
				},
			})
		default:
			return nil, fmt.Errorf("unknown binding %q", name)
		}
	}

	return factories, nil
}

// clientTLSConfig returns nil unless a CA or skip-verify is configured, which keeps both bindings in
// plaintext by default
func clientTLSConfig(cfg Config) (*tls.Config, error) {
	var opts []tls_utils.TlsConfigFunc

	if cfg.CACertFile != "" {
		opts = append(opts, tls_utils.WithCACerts(cfg.CACertFile))
	}

	if cfg.SkipTLSVerify {
		opts = append(opts, tls_utils.WithSkipVerify())
	}

	if len(opts) == 0 {
		return nil, nil
	}

	return tls_utils.NewTlsConfig(opts...)
}
