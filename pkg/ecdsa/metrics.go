package ecdsa

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var keysGenerated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ecdsa_keys_generated",
	Help: "Number of key pairs generated",
})

var signaturesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ecdsa_signatures_created",
	Help: "Number of signatures produced",
})

var signRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ecdsa_sign_rejections",
	Help: "Number of signing attempts rejected, by reason",
}, []string{"reason"})

var verifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ecdsa_verifications",
	Help: "Number of signature verifications, by result",
}, []string{"result"})
