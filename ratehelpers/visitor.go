package ratehelpers

// Visitor receives the concrete helper type from Accept.
type Visitor interface {
	VisitFutures(h *FuturesHelper)
	VisitDeposit(h *DepositHelper)
	VisitFRA(h *FRAHelper)
	VisitSwap(h *SwapHelper)
	VisitBMASwap(h *BMASwapHelper)
	VisitFxSwap(h *FxSwapHelper)
}

// VisitorFuncs adapts optional callbacks to a Visitor. Nil callbacks ignore
// that variant.
type VisitorFuncs struct {
	Futures func(*FuturesHelper)
	Deposit func(*DepositHelper)
	FRA     func(*FRAHelper)
	Swap    func(*SwapHelper)
	BMASwap func(*BMASwapHelper)
	FxSwap  func(*FxSwapHelper)
}

func (v VisitorFuncs) VisitFutures(h *FuturesHelper) {
	if v.Futures != nil {
		v.Futures(h)
	}
}

func (v VisitorFuncs) VisitDeposit(h *DepositHelper) {
	if v.Deposit != nil {
		v.Deposit(h)
	}
}

func (v VisitorFuncs) VisitFRA(h *FRAHelper) {
	if v.FRA != nil {
		v.FRA(h)
	}
}

func (v VisitorFuncs) VisitSwap(h *SwapHelper) {
	if v.Swap != nil {
		v.Swap(h)
	}
}

func (v VisitorFuncs) VisitBMASwap(h *BMASwapHelper) {
	if v.BMASwap != nil {
		v.BMASwap(h)
	}
}

func (v VisitorFuncs) VisitFxSwap(h *FxSwapHelper) {
	if v.FxSwap != nil {
		v.FxSwap(h)
	}
}
