package k8s

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/dynamic"
)

// ApplyManifests applies multi-document YAML using Server-Side Apply. Each
// document is applied separately in order; empty documents are skipped.
func (c *client) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) error {
	objects, err := decodeManifests(manifests)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if err := c.applyObject(ctx, obj, fieldManager); err != nil {
			return fmt.Errorf("failed to apply %s %s/%s: %w",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
	}
	return nil
}

// DeleteManifests deletes every object in the multi-document YAML in reverse
// declaration order, so dependents go before the things they depend on.
// Objects that are already gone are not an error, and a failed delete does
// not stop the remaining ones.
func (c *client) DeleteManifests(ctx context.Context, manifests []byte) error {
	objects, err := decodeManifests(manifests)
	if err != nil {
		return err
	}

	var errs []error
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		if err := c.deleteObject(ctx, obj); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s %s/%s: %w",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), err))
		}
	}
	return errors.Join(errs...)
}

// decodeManifests splits multi-document YAML (or JSON) into unstructured
// objects, dropping empty documents.
func decodeManifests(manifests []byte) ([]*unstructured.Unstructured, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var objects []*unstructured.Unstructured
	for doc := 0; ; doc++ {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				return objects, nil
			}
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", doc, err)
		}
		if len(obj.Object) == 0 {
			continue
		}
		if obj.GetKind() == "" {
			return nil, fmt.Errorf("manifest document %d has no kind set", doc)
		}
		objects = append(objects, &obj)
	}
}

// applyObject applies a single object with Server-Side Apply. When the REST
// mapper has no match for the object's kind the discovery cache is reset and
// the mapping retried once, which covers CRDs that were installed earlier in
// the same run.
func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error {
	ri, err := c.resourceFor(obj)
	if err != nil {
		return err
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	_, err = ri.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: fieldManager,
	})
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}

// deleteObject deletes a single object, treating not-found as success.
func (c *client) deleteObject(ctx context.Context, obj *unstructured.Unstructured) error {
	ri, err := c.resourceFor(obj)
	if err != nil {
		return err
	}
	if err := ri.Delete(ctx, obj.GetName(), metav1.DeleteOptions{}); err != nil && !apierrors.IsNotFound(err) {
		return err
	}
	return nil
}

// resourceFor resolves the object's kind to a dynamic resource interface,
// scoped to the object's namespace when the kind is namespaced.
func (c *client) resourceFor(obj *unstructured.Unstructured) (dynamic.ResourceInterface, error) {
	gvk := obj.GroupVersionKind()

	mapping, err := c.restMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return c.dynamic.Resource(mapping.Resource), nil
	}

	namespace := obj.GetNamespace()
	if namespace == "" {
		namespace = "default"
	}
	return c.dynamic.Resource(mapping.Resource).Namespace(namespace), nil
}

// restMapping wraps the mapper with a single reset-and-retry on no-match, so
// kinds registered after the client was built still resolve.
func (c *client) restMapping(gk schema.GroupKind, version string) (*meta.RESTMapping, error) {
	mapping, err := c.mapper.RESTMapping(gk, version)
	if err == nil {
		return mapping, nil
	}
	if !meta.IsNoMatchError(err) {
		return nil, err
	}
	if r, ok := c.mapper.(resettableMapper); ok {
		r.Reset()
		return c.mapper.RESTMapping(gk, version)
	}
	return nil, err
}
