package ledger

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"vantor/models"
)

var refMu sync.Mutex
var refRand *rand.Rand

func init() {
	refRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

var refPrefixes = map[string]string{
	models.TxDeposit:    "DEP",
	models.TxWithdrawal: "WDR",
	models.TxInvestment: "INV",
	models.TxDividend:   "DIV",
	models.TxReferral:   "REF",
	models.TxFee:        "FEE",
}

// NewReference builds a human-auditable, practically unique reference:
// kind prefix, sub-second timestamp fragment and a random suffix. Collisions
// are handled by the retry loop in Record, not here.
func NewReference(kind string, userID uint) string {
	refMu.Lock()
	defer refMu.Unlock()

	prefix, ok := refPrefixes[kind]
	if !ok {
		prefix = "TRX"
	}

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000000

	randPart := refRand.Intn(9000) + 1000

	return fmt.Sprintf("%s-%09d%04d%d", prefix, nanoPart, randPart, userID)
}
