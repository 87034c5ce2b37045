package core

type Services struct {
	Certificate *CertificateService
}

func NewServices(db DB) *Services {
	return &Services{
		Certificate: NewCertificateService(db),
	}
}
