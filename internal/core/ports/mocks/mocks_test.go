package mocks

import "echeck-gateway/internal/core/ports"

// Each mock must keep satisfying its port after an interface change.
var (
	_ ports.HealthChecker         = (*MockHealthChecker)(nil)
	_ ports.IssuerRepository      = (*MockIssuerRepository)(nil)
	_ ports.BankAccountRepository = (*MockBankAccountRepository)(nil)
	_ ports.TransactionRepository = (*MockTransactionRepository)(nil)
	_ ports.IdempotencyRepository = (*MockIdempotencyRepository)(nil)
	_ ports.AuditRepository       = (*MockAuditRepository)(nil)
	_ ports.InstrumentArchive     = (*MockInstrumentArchive)(nil)
	_ ports.DBTransactor          = (*MockDBTransactor)(nil)
	_ ports.EncryptionService     = (*MockEncryptionService)(nil)
	_ ports.HashService           = (*MockHashService)(nil)
	_ ports.TokenService          = (*MockTokenService)(nil)
	_ ports.IdempotencyCache      = (*MockIdempotencyCache)(nil)
	_ ports.ChangeFeed            = (*MockChangeFeed)(nil)
	_ ports.PayoutProvider        = (*MockPayoutProvider)(nil)
	_ ports.MemoSuggester         = (*MockMemoSuggester)(nil)
	_ ports.AuthService           = (*MockAuthService)(nil)
	_ ports.IssuerService         = (*MockIssuerService)(nil)
	_ ports.AccountService        = (*MockAccountService)(nil)
	_ ports.PaymentService        = (*MockPaymentService)(nil)
	_ ports.CheckService          = (*MockCheckService)(nil)
	_ ports.MemoService           = (*MockMemoService)(nil)
	_ ports.SignatureService      = (*MockSignatureService)(nil)
	_ ports.ReportingService      = (*MockReportingService)(nil)
	_ ports.AuditService          = (*MockAuditService)(nil)
)
