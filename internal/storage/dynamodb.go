package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/types"
)

// DynamoDBStore implements Store using AWS DynamoDB
type DynamoDBStore struct {
	client *dynamodb.Client
	config DynamoConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// For local mode, build the client directly without LoadDefaultConfig.
		// LoadDefaultConfig probes the EC2 IMDS endpoint which hangs on EC2
		// instances when static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	// Create tables in local mode
	if cfg.Mode == DynamoModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Msg("DynamoDB store initialized")

	return store, nil
}

func (s *DynamoDBStore) SaveDailyKPIs(kpis types.DailyKPIs) error {
	item, err := attributevalue.MarshalMap(kpis)
	if err != nil {
		return fmt.Errorf("failed to marshal daily kpis: %w", err)
	}

	_, err = s.client.PutItem(context.Background(), &dynamodb.PutItemInput{
		TableName: aws.String(s.config.DailyKPIsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save daily kpis: %w", err)
	}
	return nil
}

func (s *DynamoDBStore) SaveAgentPerformance(agents []types.AgentPerformance) error {
	items := make([]map[string]dbtypes.AttributeValue, 0, len(agents))
	for _, agent := range agents {
		item, err := attributevalue.MarshalMap(agent)
		if err != nil {
			return fmt.Errorf("failed to marshal agent performance: %w", err)
		}
		items = append(items, item)
	}
	return s.batchPut(s.config.PerformanceTable, items)
}

func (s *DynamoDBStore) SaveAnomalies(anomalies []types.Anomaly) error {
	items := make([]map[string]dbtypes.AttributeValue, 0, len(anomalies))
	for _, anomaly := range anomalies {
		item, err := attributevalue.MarshalMap(anomaly)
		if err != nil {
			return fmt.Errorf("failed to marshal anomaly: %w", err)
		}
		items = append(items, item)
	}
	return s.batchPut(s.config.AnomaliesTable, items)
}

// batchPut writes items in DynamoDB's maximum batch size of 25
func (s *DynamoDBStore) batchPut(tableName string, items []map[string]dbtypes.AttributeValue) error {
	for i := 0; i < len(items); i += 25 {
		end := i + 25
		if end > len(items) {
			end = len(items)
		}

		requests := make([]dbtypes.WriteRequest, 0, end-i)
		for _, item := range items[i:end] {
			requests = append(requests, dbtypes.WriteRequest{
				PutRequest: &dbtypes.PutRequest{Item: item},
			})
		}

		_, err := s.client.BatchWriteItem(context.Background(), &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]dbtypes.WriteRequest{
				tableName: requests,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to batch write to %s: %w", tableName, err)
		}
	}
	return nil
}

func (s *DynamoDBStore) GetDailyKPIs(date string) (*types.DailyKPIs, error) {
	result, err := s.client.GetItem(context.Background(), &dynamodb.GetItemInput{
		TableName: aws.String(s.config.DailyKPIsTable),
		Key: map[string]dbtypes.AttributeValue{
			"Date": &dbtypes.AttributeValueMemberS{Value: date},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily kpis: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var kpis types.DailyKPIs
	if err := attributevalue.UnmarshalMap(result.Item, &kpis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily kpis: %w", err)
	}
	return &kpis, nil
}

func (s *DynamoDBStore) GetAgentPerformanceByDate(date string) ([]types.AgentPerformance, error) {
	keyCond := expression.Key("Date").Equal(expression.Value(date))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := s.client.Query(context.Background(), &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.PerformanceTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query agent performance: %w", err)
	}

	var agents []types.AgentPerformance
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &agents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent performance: %w", err)
	}
	return agents, nil
}

func (s *DynamoDBStore) GetAnomaliesByDate(date string) ([]types.Anomaly, error) {
	keyCond := expression.Key("Date").Equal(expression.Value(date))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := s.client.Query(context.Background(), &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.AnomaliesTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}

	var anomalies []types.Anomaly
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &anomalies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal anomalies: %w", err)
	}
	return anomalies, nil
}

// GetAgentHistory scans the performance table for one agent across dates.
// For production volume, a GSI on Agent would be more efficient.
func (s *DynamoDBStore) GetAgentHistory(agent string) ([]types.AgentPerformance, error) {
	filter := expression.Name("Agent").Equal(expression.Value(agent))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	var history []types.AgentPerformance
	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(s.config.PerformanceTable),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(context.Background(), input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent history: %w", err)
		}

		var page []types.AgentPerformance
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal agent history: %w", err)
		}
		history = append(history, page...)

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return history, nil
}

// NewStore creates the appropriate store based on configuration
func NewStore(ctx context.Context, logger zerolog.Logger) (Store, error) {
	cfg := LoadDynamoConfig()

	switch cfg.Mode {
	case DynamoModeLocal, DynamoModeAWS:
		return NewDynamoDBStore(ctx, cfg, logger)
	default:
		logger.Info().Msg("DynamoDB disabled (DYNAMO_MODE=none)")
		return NewNoopStore(), nil
	}
}

// TruncateAll deletes all items from every table (scan + batch delete)
func (s *DynamoDBStore) TruncateAll() error {
	for _, table := range tableSpecs(s.config) {
		if err := s.truncateTable(table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table.name, err)
		}
	}
	return nil
}

func (s *DynamoDBStore) truncateTable(table tableSpec) error {
	projection := "#pk"
	names := map[string]string{"#pk": table.pk}
	if table.sk != "" {
		projection = "#pk, #sk"
		names["#sk"] = table.sk
	}

	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                aws.String(table.name),
			ProjectionExpression:     aws.String(projection),
			ExpressionAttributeNames: names,
			Limit:                    aws.Int32(500),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(context.Background(), input)
		if err != nil {
			return err
		}

		// Batch delete in groups of 25
		for i := 0; i < len(result.Items); i += 25 {
			end := i + 25
			if end > len(result.Items) {
				end = len(result.Items)
			}

			requests := make([]dbtypes.WriteRequest, 0, end-i)
			for _, item := range result.Items[i:end] {
				key := map[string]dbtypes.AttributeValue{
					table.pk: item[table.pk],
				}
				if table.sk != "" {
					key[table.sk] = item[table.sk]
				}
				requests = append(requests, dbtypes.WriteRequest{
					DeleteRequest: &dbtypes.DeleteRequest{Key: key},
				})
			}

			_, err := s.client.BatchWriteItem(context.Background(), &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]dbtypes.WriteRequest{
					table.name: requests,
				},
			})
			if err != nil {
				return err
			}
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	s.logger.Info().Str("table", table.name).Msg("table truncated")
	return nil
}
