package config

// SMTPAddr is the submission server used for password reset mail (host:port).
func SMTPAddr() string {
	return GetEnv("SMTP_ADDR", "localhost:587")
}

func SMTPFrom() string {
	return GetEnv("SMTP_FROM", "no-reply@casacomfort.local")
}

// SMTPUsername enables SASL PLAIN when set.
func SMTPUsername() string {
	return GetEnv("SMTP_USERNAME", "")
}

func SMTPPassword() string {
	return GetEnv("SMTP_PASSWORD", "")
}

// DKIMDomain enables DKIM signing of outbound mail when set together with DKIMKeyPath.
func DKIMDomain() string {
	return GetEnv("DKIM_DOMAIN", "")
}

func DKIMSelector() string {
	return GetEnv("DKIM_SELECTOR", "default")
}

// DKIMKeyPath points at a PEM encoded PKCS#8 or PKCS#1 private key.
func DKIMKeyPath() string {
	return GetEnv("DKIM_KEY_PATH", "")
}
