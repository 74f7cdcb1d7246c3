package services

// ServiceContainer holds instances of all the application services.
// Handlers receive it from the composition root in cmd/.
type ServiceContainer struct {
	Account  AccountSvcFacade
	Transfer TransferSvc
}
