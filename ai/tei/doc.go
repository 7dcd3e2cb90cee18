// Package tei implements ai.TokenEmbedder against a HuggingFace
// text-embeddings-inference server.
//
// The server's /embed_all route returns the last hidden layer for every token
// of every input, special tokens included, which is exactly the input the
// fine-tuned head expects. Start a server for the encoder the head was trained
// on, for example:
//
//	docker run -p 8080:80 ghcr.io/huggingface/text-embeddings-inference:cpu-latest \
//	    --model-id gsarti/biobert-nli
package tei
