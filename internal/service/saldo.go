package service

import (
	"fmt"
	"math/rand"

	"condocaja/internal/model"
)

// CalcularSaldo folds the complete ledger of one period into its theoretical
// balance, in centavos. Pure function, order-independent, 0 on empty input.
//
//	inicial, reposicion  → suman
//	gasto                → resta
//	ajuste               → suma su monto con signo (sobrante +, faltante −)
//
// The balance is always recomputed from the full entry set — there is no
// cached running counter to drift.
func CalcularSaldo(transacciones []model.Transaccion) int64 {
	var saldo int64
	for _, t := range transacciones {
		switch t.Tipo {
		case "inicial", "reposicion":
			saldo += t.Monto
		case "gasto":
			saldo -= t.Monto
		case "ajuste":
			saldo += t.Monto
		}
	}
	return saldo
}

// generarFolio produces the human-readable reference for a ledger entry:
// fixed prefix plus 8 random digits. Not collision checked.
func generarFolio() string {
	return fmt.Sprintf("CCH-%08d", rand.Intn(100000000))
}
