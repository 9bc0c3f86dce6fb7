// internal/services/chain_service.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storyweave/storyweave-backend/internal/config"
)

// ChainService anchors ledger events to the chain layer. The on-chain
// contracts are an external collaborator; here they are represented by
// deterministic receipt hashes so every mint, decision, and distribution
// carries a verifiable reference.
type ChainService struct {
	config *config.Config
}

func NewChainService(config *config.Config) *ChainService {
	logrus.WithFields(logrus.Fields{
		"network":  config.Chain.Network,
		"contract": config.Chain.ContractAddress,
		"rpc_url":  config.Chain.RPCURL,
	}).Debug("Chain service initialized")

	return &ChainService{config: config}
}

func (s *ChainService) RecordMint(assetID uuid.UUID, kind, creatorAddress string) string {
	recordData := map[string]interface{}{
		"type":            "asset_mint",
		"asset_id":        assetID.String(),
		"kind":            kind,
		"creator_address": creatorAddress,
		"network":         s.config.Chain.Network,
		"contract":        s.config.Chain.ContractAddress,
		"timestamp":       time.Now().Unix(),
	}

	hash := s.generateHash(recordData)
	logrus.WithFields(logrus.Fields{
		"asset_id": assetID,
		"tx_hash":  hash,
	}).Info("Chain record created for mint")

	return hash
}

func (s *ChainService) RecordDecision(contributionID uuid.UUID, decision, reviewerAddress string) string {
	recordData := map[string]interface{}{
		"type":             "contribution_decision",
		"contribution_id":  contributionID.String(),
		"decision":         decision,
		"reviewer_address": reviewerAddress,
		"network":          s.config.Chain.Network,
		"timestamp":        time.Now().Unix(),
	}

	hash := s.generateHash(recordData)
	logrus.WithFields(logrus.Fields{
		"contribution_id": contributionID,
		"decision":        decision,
		"tx_hash":         hash,
	}).Info("Chain record created for contribution decision")

	return hash
}

func (s *ChainService) RecordDistribution(assetID uuid.UUID, amount float64) string {
	recordData := map[string]interface{}{
		"type":      "revenue_distribution",
		"asset_id":  assetID.String(),
		"amount":    fmt.Sprintf("%.2f", amount),
		"network":   s.config.Chain.Network,
		"timestamp": time.Now().Unix(),
	}

	hash := s.generateHash(recordData)
	logrus.WithFields(logrus.Fields{
		"asset_id": assetID,
		"tx_hash":  hash,
	}).Info("Chain record created for distribution")

	return hash
}

func (s *ChainService) generateHash(data map[string]interface{}) string {
	// %+v prints map keys in sorted order, so the hash is stable
	jsonStr := fmt.Sprintf("%+v", data)
	hash := sha256.Sum256([]byte(jsonStr))
	return "0x" + hex.EncodeToString(hash[:])
}
