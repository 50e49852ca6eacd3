package handler

import (
	"finetrack/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	violationHandler *ViolationHandler
	fineHandler      *FineHandler
	paymentHandler   *PaymentHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	violationUseCase *usecase.ViolationUseCase,
	fineUseCase *usecase.FineUseCase,
	paymentUseCase *usecase.PaymentUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	violationHandler = NewViolationHandler(violationUseCase)
	fineHandler = NewFineHandler(fineUseCase)
	paymentHandler = NewPaymentHandler(paymentUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetViolationHandler() *ViolationHandler {
	return violationHandler
}

func GetFineHandler() *FineHandler {
	return fineHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}
