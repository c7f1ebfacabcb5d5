package tls_utils

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/RedHatInsights/connector-conformance/internal/platform/logger"

	"github.com/sirupsen/logrus"
)

type TlsConfigFunc func(*tls.Config) error

// WithCert loads the key pair a server presents, e.g. the gRPC listener
func WithCert(certFilePath string, certKeyPath string) TlsConfigFunc {
	return func(tlsConfig *tls.Config) error {
		logger.Log.WithFields(logrus.Fields{"cert": certFilePath}).Debug("Loading TLS key pair")

		cert, err := tls.LoadX509KeyPair(certFilePath, certKeyPath)
		if err != nil {
			return err
		}

		tlsConfig.Certificates = append(tlsConfig.Certificates, cert)

		return nil
	}
}

// WithCACerts trusts the PEM bundle at caCertFilePath instead of the system roots
func WithCACerts(caCertFilePath string) TlsConfigFunc {
	return func(tlsConfig *tls.Config) error {
		logger.Log.WithFields(logrus.Fields{"ca_cert": caCertFilePath}).Debug("Loading TLS CA certificates")

		pemCerts, err := os.ReadFile(caCertFilePath)
		if err != nil {
			return err
		}

		if tlsConfig.RootCAs == nil {
			tlsConfig.RootCAs = x509.NewCertPool()
		}

		if !tlsConfig.RootCAs.AppendCertsFromPEM(pemCerts) {
			return fmt.Errorf("no certificates found in %s", caCertFilePath)
		}

		return nil
	}
}

func WithSkipVerify() TlsConfigFunc {
	return func(tlsConfig *tls.Config) error {
		logger.Log.Warn("TLS certificate verification is disabled")

		tlsConfig.InsecureSkipVerify = true

		return nil
	}
}

// NewTlsConfig applies configOpts in order on top of a TLS 1.2 minimum
func NewTlsConfig(configOpts ...TlsConfigFunc) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	for _, opt := range configOpts {
		if err := opt(tlsConfig); err != nil {
			return nil, err
		}
	}

	return tlsConfig, nil
}
