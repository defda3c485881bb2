// Package security builds the TLS client configuration used by httpclient
// when a provider endpoint needs a private CA or a client certificate.
//
//	transport:
//	  tls:
//	    ca_file: /etc/inkflow/ca.pem
package security
