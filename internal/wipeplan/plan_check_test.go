package wipeplan

import (
	"testing"

	. "gopkg.in/check.v1"

	"github.com/canonical/securewipe/internal/certmodel"
)

// Test hooks gocheck into go test, the same registration nullboot's
// efibootmgr/efivars suites use alongside plain testing.T tables.
func Test(t *testing.T) { TestingT(t) }

type planSuite struct{}

var _ = Suite(&planSuite{})

func (s *planSuite) TestDestroyAlwaysOverwritesRandomVerify(c *C) {
	d := certmodel.Device{RiskLevel: certmodel.RiskSafe, Features: certmodel.Features{NVMeCryptoErase: true}}
	p := Plan(d, certmodel.PolicyDestroy)
	c.Check(p.MainMethod, Equals, certmodel.MethodOverwriteRandomVerify)
	c.Check(p.Degraded, Equals, false)
}

func (s *planSuite) TestPurgeFallsBackThroughMethodsInOrder(c *C) {
	d := certmodel.Device{RiskLevel: certmodel.RiskSafe, Features: certmodel.Features{ATASecureErase: true}}
	p := Plan(d, certmodel.PolicyPurge)
	c.Check(p.MainMethod, Equals, certmodel.MethodATASecureErase)
}

func (s *planSuite) TestBlockedPlanStillReportsAMethod(c *C) {
	d := certmodel.Device{RiskLevel: certmodel.RiskCritical}
	p := Plan(d, certmodel.PolicyClear)
	c.Check(p.Blocked, Equals, true)
	c.Check(p.MainMethod, Equals, certmodel.MethodOverwriteZero)
}
